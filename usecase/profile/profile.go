// Package profile serves the signed-in member's own view of the portal.
package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

// CourseCard is one course on the dashboard with the caller's completion.
type CourseCard struct {
	Course   domain.Course         `json:"course"`
	Progress domain.CourseProgress `json:"progress"`
}

// Dashboard is the landing view of a signed-in member.
type Dashboard struct {
	User    *domain.User `json:"user"`
	Courses []CourseCard `json:"courses"`
}

type UseCase struct {
	users    repository.UserRepository
	courses  repository.CourseRepository
	progress repository.ProgressRepository
	gate     usecase.Gate
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	courses repository.CourseRepository,
	progress repository.ProgressRepository,
	gate usecase.Gate,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		courses:  courses,
		progress: progress,
		gate:     gate,
		logger:   logger,
	}
}

// Me returns the caller's own record.
func (uc *UseCase) Me(ctx context.Context, caller policy.Caller) (*domain.User, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryUserRecord, OwnerID: caller.ID}); err != nil {
		return nil, err
	}
	return uc.users.GetByID(ctx, caller.ID)
}

// Dashboard returns the caller's record with progress for every course they can open. Pending
// members get their record and an empty course list.
func (uc *UseCase) Dashboard(ctx context.Context, caller policy.Caller) (*Dashboard, error) {
	user, err := uc.Me(ctx, caller)
	if err != nil {
		return nil, err
	}

	board := &Dashboard{User: user, Courses: []CourseCard{}}
	courses, err := uc.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, course := range uc.gate.FilterCourses(caller, courses) {
		res := policy.Resource{Category: policy.CategoryCourse, CourseType: course.CourseType}
		if !uc.gate.Allows(ctx, caller, policy.ActionEnter, res) {
			continue
		}
		summary, err := uc.progress.CourseSummary(ctx, caller.ID, course.ID)
		if err != nil {
			return nil, err
		}
		board.Courses = append(board.Courses, CourseCard{Course: course, Progress: *summary})
	}
	return board, nil
}
