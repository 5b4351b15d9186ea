package repository

import (
	"context"
	"time"

	"github.com/fastygo/clubportal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail looks up the non-archived account holding email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	// ApplyTransition performs t atomically, guarded on the current status being one of
	// domain.AllowedFrom(t). It returns ErrAlreadyArchived when the guard fails on an archived user.
	ApplyTransition(ctx context.Context, id string, t domain.Transition) (*domain.User, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
	CountAdmins(ctx context.Context) (int, error)
}
