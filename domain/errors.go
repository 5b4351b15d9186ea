package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Stable reason codes exposed to API clients.
const (
	ReasonUnauthenticated      = "unauthenticated"
	ReasonForbiddenNotAdmin    = "forbidden_not_admin"
	ReasonForbiddenNotOwner    = "forbidden_not_owner"
	ReasonForbiddenDefault     = "forbidden_default"
	ReasonNotApproved          = "not_approved"
	ReasonMentorshipRequired   = "mentorship_required"
	ReasonSetupAlreadyComplete = "setup_already_complete"
	ReasonAlreadyArchived      = "already_archived"
	ReasonValidation           = "validation_error"
	ReasonNotFound             = "not_found"
	ReasonStoreUnavailable     = "store_unavailable"
	ReasonInternal             = "internal_error"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches domain errors by code and reason so sentinel values survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, reason, message string) *Error {
	return &Error{Code: code, Reason: reason, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, reason, message string, err error) *Error {
	return &Error{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Invalid builds a validation error with a caller-facing message.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, ReasonValidation, message)
}

// Unavailable marks an infrastructure failure as retryable for the caller.
func Unavailable(err error) *Error {
	return WrapError(ErrCodeUnavailable, ReasonStoreUnavailable, "store unavailable", err)
}

// Common domain errors.
var (
	ErrUserNotFound         = NewError(ErrCodeNotFound, ReasonNotFound, "user not found")
	ErrCourseNotFound       = NewError(ErrCodeNotFound, ReasonNotFound, "course not found")
	ErrModuleNotFound       = NewError(ErrCodeNotFound, ReasonNotFound, "module not found")
	ErrContentNotFound      = NewError(ErrCodeNotFound, ReasonNotFound, "content not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, ReasonNotFound, "session not found")
	ErrProgressNotFound     = NewError(ErrCodeNotFound, ReasonNotFound, "progress record not found")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, ReasonUnauthenticated, "authentication required")
	ErrInvalidCredentials   = NewError(ErrCodeUnauthorized, ReasonUnauthenticated, "invalid email or password")
	ErrInvalidPayload       = Invalid("invalid payload")
	ErrEmailTaken           = Invalid("email already registered")
	ErrAlreadyArchived      = NewError(ErrCodeConflict, ReasonAlreadyArchived, "user is archived")
	ErrSetupAlreadyComplete = NewError(ErrCodeConflict, ReasonSetupAlreadyComplete, "system already initialized")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ReasonOf returns the stable reason code carried by err, or an empty string.
func ReasonOf(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Reason
	}
	return ""
}
