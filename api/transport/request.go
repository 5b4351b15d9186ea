package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/clubportal/domain"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type SignupRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Batch    string `json:"batch" validate:"max=32"`
	Reason   string `json:"reason" validate:"max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type InitializeRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type MentorshipRequest struct {
	Grant *bool `json:"mentorship_access" validate:"required"`
}

type CourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Outline     string `json:"outline"`
	CourseType  string `json:"course_type" validate:"required,oneof=beginner advanced mentorship"`
	OrderNumber int    `json:"order_number" validate:"gte=0"`
}

type ModuleRequest struct {
	CourseID    string `json:"course_id"`
	Title       string `json:"title" validate:"required,max=200"`
	Duration    string `json:"duration" validate:"max=32"`
	VideoLink   string `json:"video_link" validate:"omitempty,url"`
	PDFLink     string `json:"pdf_link" validate:"omitempty,url"`
	OrderNumber int    `json:"order_number" validate:"gte=0"`
}

type ReorderRequest struct {
	Items []domain.OrderItem `json:"items" validate:"required,min=1,dive"`
}

type ProgressRequest struct {
	ModuleID  string `json:"module_id" validate:"required"`
	Completed bool   `json:"completed"`
}

type ProgressUpdateRequest struct {
	Completed bool `json:"completed"`
}

type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048"`
}

type LeaderRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Position    string `json:"position" validate:"required,max=120"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,max=2048"`
	OrderNumber int    `json:"order_number" validate:"gte=0"`
}

type SuccessEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=2048"`
	// Date accepts RFC 3339 or YYYY-MM-DD.
	Date string `json:"date" validate:"required"`
}

type HomepageRequest struct {
	Section string `json:"section" validate:"required,max=64"`
	Content string `json:"content"`
}

type CoachRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Bio          string `json:"bio"`
	Achievements string `json:"achievements"`
	ImageURL     string `json:"image_url" validate:"omitempty,max=2048"`
}

// Decode unmarshals body into dst and validates its tags. Failures come back as validation
// errors naming the first offending field.
func Decode(body []byte, dst any) error {
	if len(body) == 0 {
		return domain.ErrInvalidPayload
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ReasonValidation, "invalid payload", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return domain.Invalid(fieldMessage(fields[0]))
		}
		return domain.WrapError(domain.ErrCodeInvalid, domain.ReasonValidation, "invalid payload", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}
