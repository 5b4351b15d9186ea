// Package progress tracks module completion for members.
package progress

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

type UseCase struct {
	progress repository.ProgressRepository
	modules  repository.ModuleRepository
	courses  repository.CourseRepository
	gate     usecase.Gate
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	progress repository.ProgressRepository,
	modules repository.ModuleRepository,
	courses repository.CourseRepository,
	gate usecase.Gate,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		progress: progress,
		modules:  modules,
		courses:  courses,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the caller's own records, most recently touched first.
func (uc *UseCase) List(ctx context.Context, caller policy.Caller) ([]domain.Progress, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryProgressRecord}); err != nil {
		return nil, err
	}
	return uc.progress.ListByUser(ctx, caller.ID)
}

// Mark records completion of a module for the caller, creating the record on first use.
func (uc *UseCase) Mark(ctx context.Context, caller policy.Caller, moduleID string, completed bool) (*domain.Progress, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionCreate, policy.Resource{Category: policy.CategoryProgressRecord}); err != nil {
		return nil, err
	}
	if moduleID == "" {
		return nil, domain.Invalid("module_id is required")
	}

	courseType, err := uc.courseTypeOf(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionCreate, policy.Resource{Category: policy.CategoryProgressRecord, CourseType: courseType}); err != nil {
		return nil, err
	}

	record := &domain.Progress{UserID: caller.ID, ModuleID: moduleID}
	record.MarkCompleted(completed, uc.now())
	if err := uc.progress.Upsert(ctx, record); err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Debug("progress marked",
		zap.String("module_id", moduleID),
		zap.Bool("completed", completed),
	)
	return record, nil
}

// Update changes a record the caller owns. A missing record is reported exactly like one that
// belongs to somebody else.
func (uc *UseCase) Update(ctx context.Context, caller policy.Caller, id string, completed bool) (*domain.Progress, error) {
	record, err := uc.progress.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrProgressNotFound) {
		return nil, err
	}

	res := policy.Resource{Category: policy.CategoryProgressRecord}
	if record != nil {
		res.OwnerID = record.UserID
		if record.UserID == caller.ID {
			if res.CourseType, err = uc.courseTypeOf(ctx, record.ModuleID); err != nil {
				return nil, err
			}
		}
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionUpdate, res); err != nil {
		return nil, err
	}

	record.MarkCompleted(completed, uc.now())
	if err := uc.progress.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CourseSummary counts the caller's completed modules in one course.
func (uc *UseCase) CourseSummary(ctx context.Context, caller policy.Caller, courseID string) (*domain.CourseProgress, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryProgressRecord}); err != nil {
		return nil, err
	}
	course, err := uc.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.IsMentorship() {
		if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryProgressRecord, CourseType: course.CourseType}); err != nil {
			return nil, err
		}
	}
	return uc.progress.CourseSummary(ctx, caller.ID, courseID)
}

func (uc *UseCase) courseTypeOf(ctx context.Context, moduleID string) (domain.CourseType, error) {
	module, err := uc.modules.GetByID(ctx, moduleID)
	if err != nil {
		return "", err
	}
	course, err := uc.courses.GetByID(ctx, module.CourseID)
	if err != nil {
		return "", err
	}
	return course.CourseType, nil
}
