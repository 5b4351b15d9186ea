package repository

import (
	"context"
	"time"

	"github.com/fastygo/clubportal/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	// Extend moves the expiry of a live session to expiresAt.
	Extend(ctx context.Context, id string, expiresAt time.Time) error
	// RevokeUser drops every session of userID and reports how many were removed.
	RevokeUser(ctx context.Context, userID string) (int, error)
}
