package repository

import (
	"context"

	"github.com/fastygo/clubportal/domain"
)

// CourseRepository reads exclude archived courses unless stated otherwise.
type CourseRepository interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Archive(ctx context.Context, id string) error
}

type ModuleRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]domain.Module, error)
	GetByID(ctx context.Context, id string) (*domain.Module, error)
	Create(ctx context.Context, module *domain.Module) error
	Update(ctx context.Context, module *domain.Module) error
	Archive(ctx context.Context, id string) error
	Reorder(ctx context.Context, items []domain.OrderItem) error
}
