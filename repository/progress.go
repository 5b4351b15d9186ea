package repository

import (
	"context"

	"github.com/fastygo/clubportal/domain"
)

type ProgressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Progress, error)
	GetByID(ctx context.Context, id string) (*domain.Progress, error)
	// Upsert writes the record keyed by (user_id, module_id) and fills in its id.
	Upsert(ctx context.Context, progress *domain.Progress) error
	Update(ctx context.Context, progress *domain.Progress) error
	CourseSummary(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error)
}
