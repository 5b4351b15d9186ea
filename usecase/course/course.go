// Package course serves the catalog and its administration.
package course

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

type CourseInput struct {
	Title       string
	Description string
	Outline     string
	CourseType  domain.CourseType
	OrderNumber int
}

type ModuleInput struct {
	CourseID    string
	Title       string
	Duration    string
	VideoLink   string
	PDFLink     string
	OrderNumber int
}

type UseCase struct {
	tx      repository.TxManager
	courses repository.CourseRepository
	modules repository.ModuleRepository
	audit   repository.AuditRepository
	gate    usecase.Gate
	logger  *zap.Logger
}

func New(
	tx repository.TxManager,
	courses repository.CourseRepository,
	modules repository.ModuleRepository,
	audit repository.AuditRepository,
	gate usecase.Gate,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tx:      tx,
		courses: courses,
		modules: modules,
		audit:   audit,
		gate:    gate,
		logger:  logger,
	}
}

// ListCourses returns the catalog as the caller may see it.
func (uc *UseCase) ListCourses(ctx context.Context, caller policy.Caller) ([]domain.Course, error) {
	courses, err := uc.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.gate.FilterCourses(caller, courses), nil
}

func (uc *UseCase) GetCourse(ctx context.Context, caller policy.Caller, id string) (*domain.Course, error) {
	course, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryCourse, CourseType: course.CourseType}); err != nil {
		return nil, err
	}
	return course, nil
}

// ListModules opens a course: only approved members, and for mentorship courses only members
// with mentorship access, get its lessons.
func (uc *UseCase) ListModules(ctx context.Context, caller policy.Caller, courseID string) ([]domain.Module, error) {
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionEnter, policy.Resource{Category: policy.CategoryCourse, CourseType: course.CourseType}); err != nil {
		return nil, err
	}
	return uc.modules.ListByCourse(ctx, courseID)
}

// GetModule opens a single lesson under the same rules as its course.
func (uc *UseCase) GetModule(ctx context.Context, caller policy.Caller, id string) (*domain.Module, error) {
	module, err := uc.modules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course, err := uc.courses.GetByID(ctx, module.CourseID)
	if err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionEnter, policy.Resource{Category: policy.CategoryModule, CourseType: course.CourseType}); err != nil {
		return nil, err
	}
	return module, nil
}

func (uc *UseCase) CreateCourse(ctx context.Context, caller policy.Caller, in CourseInput) (*domain.Course, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionCreate, policy.Resource{Category: policy.CategoryCourse}); err != nil {
		return nil, err
	}
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	course := &domain.Course{}
	applyCourse(course, in)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.courses.Create(ctx, course); err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "course", course.ID, "course.create", course))
	})
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("course created", zap.String("course_id", course.ID))
	return course, nil
}

func (uc *UseCase) UpdateCourse(ctx context.Context, caller policy.Caller, id string, in CourseInput) (*domain.Course, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionUpdate, policy.Resource{Category: policy.CategoryCourse}); err != nil {
		return nil, err
	}
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	var course *domain.Course
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.courses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		applyCourse(current, in)
		if err := uc.courses.Update(ctx, current); err != nil {
			return err
		}
		course = current
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "course", id, "course.update", current))
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *UseCase) ArchiveCourse(ctx context.Context, caller policy.Caller, id string) error {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionArchive, policy.Resource{Category: policy.CategoryCourse}); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.courses.Archive(ctx, id); err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "course", id, "course.archive", nil))
	})
}

func (uc *UseCase) CreateModule(ctx context.Context, caller policy.Caller, in ModuleInput) (*domain.Module, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionCreate, policy.Resource{Category: policy.CategoryModule}); err != nil {
		return nil, err
	}
	if err := validateModule(in); err != nil {
		return nil, err
	}

	module := &domain.Module{CourseID: in.CourseID}
	applyModule(module, in)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.courses.GetByID(ctx, in.CourseID); err != nil {
			return err
		}
		if err := uc.modules.Create(ctx, module); err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "module", module.ID, "module.create", module))
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

// UpdateModule edits a lesson in place. A module never moves to another course.
func (uc *UseCase) UpdateModule(ctx context.Context, caller policy.Caller, id string, in ModuleInput) (*domain.Module, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionUpdate, policy.Resource{Category: policy.CategoryModule}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || in.OrderNumber < 0 {
		return nil, domain.Invalid("module title and a non-negative order are required")
	}

	var module *domain.Module
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.modules.GetByID(ctx, id)
		if err != nil {
			return err
		}
		applyModule(current, in)
		if err := uc.modules.Update(ctx, current); err != nil {
			return err
		}
		module = current
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "module", id, "module.update", current))
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

func (uc *UseCase) ArchiveModule(ctx context.Context, caller policy.Caller, id string) error {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionArchive, policy.Resource{Category: policy.CategoryModule}); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.modules.Archive(ctx, id); err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "module", id, "module.archive", nil))
	})
}

// ReorderModules moves every listed module in one transaction; an unknown id aborts all moves.
func (uc *UseCase) ReorderModules(ctx context.Context, caller policy.Caller, items []domain.OrderItem) error {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionUpdate, policy.Resource{Category: policy.CategoryModule}); err != nil {
		return err
	}
	if err := validateOrder(items); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.modules.Reorder(ctx, items); err != nil {
			return err
		}
		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "module", "", "module.reorder", items))
	})
}

func validateCourse(in CourseInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Invalid("course title is required")
	}
	if !in.CourseType.Valid() {
		return domain.Invalid("course_type must be beginner, advanced or mentorship")
	}
	if in.OrderNumber < 0 {
		return domain.Invalid("order_number must not be negative")
	}
	return nil
}

func validateModule(in ModuleInput) error {
	if in.CourseID == "" {
		return domain.Invalid("course_id is required")
	}
	if strings.TrimSpace(in.Title) == "" || in.OrderNumber < 0 {
		return domain.Invalid("module title and a non-negative order are required")
	}
	return nil
}

func validateOrder(items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.Invalid("at least one item is required")
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" || item.OrderNumber < 0 {
			return domain.Invalid("every item needs an id and a non-negative order")
		}
		if _, dup := seen[item.ID]; dup {
			return domain.Invalid("duplicate id " + item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func applyCourse(c *domain.Course, in CourseInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Description = in.Description
	c.Outline = in.Outline
	c.CourseType = in.CourseType
	c.OrderNumber = in.OrderNumber
}

func applyModule(m *domain.Module, in ModuleInput) {
	m.Title = strings.TrimSpace(in.Title)
	m.Duration = in.Duration
	m.VideoLink = in.VideoLink
	m.PDFLink = in.PDFLink
	m.OrderNumber = in.OrderNumber
}
