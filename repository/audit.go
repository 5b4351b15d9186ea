package repository

import (
	"context"

	"github.com/fastygo/clubportal/domain"
)

type AuditRepository interface {
	Append(ctx context.Context, event *domain.AuditEvent) error
	List(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
