package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	}
	return false
}

// Status is the closed set of account lifecycle states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusArchived:
		return true
	}
	return false
}

// User represents an account holder of the club portal.
type User struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Status           Status     `json:"status"`
	MentorshipAccess bool       `json:"mentorship_access"`
	Batch            string     `json:"batch,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	LastLoginAt      *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewMember builds the record created by a public signup.
func NewMember(id, fullName, email, passwordHash string) *User {
	return &User{
		ID:           id,
		FullName:     strings.TrimSpace(fullName),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleMember,
		Status:       StatusPending,
	}
}

// NewBootstrapAdmin builds the first administrator, which skips the approval gate.
func NewBootstrapAdmin(id, fullName, email, passwordHash string) *User {
	return &User{
		ID:               id,
		FullName:         strings.TrimSpace(fullName),
		Email:            NormalizeEmail(email),
		PasswordHash:     passwordHash,
		Role:             RoleAdmin,
		Status:           StatusApproved,
		MentorshipAccess: true,
	}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsApproved() bool {
	return u != nil && u.Status == StatusApproved
}

func (u *User) IsArchived() bool {
	return u != nil && u.Status == StatusArchived
}

// HasMentorship reports effective mentorship access; the flag is inert unless approved.
func (u *User) HasMentorship() bool {
	return u.IsApproved() && u.MentorshipAccess
}

// NormalizeEmail lowercases and trims an address for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFilter narrows admin member listings.
type UserFilter struct {
	Status     Status
	Mentorship *bool
	Limit      int
	Offset     int
}
