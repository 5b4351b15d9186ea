// Package gate enforces access policy decisions at the edges of use cases and routes.
package gate

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/api/transport"
	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/logger"
)

// Recorder receives one observation per decision.
type Recorder interface {
	ObserveDecision(category, action, outcome string)
}

type Gate struct {
	recorder Recorder
	logger   *zap.Logger
}

func New(recorder Recorder, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{recorder: recorder, logger: logger}
}

// Authorize evaluates the policy and converts a denial into a domain error.
func (g *Gate) Authorize(ctx context.Context, caller policy.Caller, action policy.Action, res policy.Resource) error {
	decision := policy.Evaluate(caller, action, res)

	outcome := "allow"
	if !decision.Allowed {
		outcome = string(decision.Reason)
	}
	if g.recorder != nil {
		g.recorder.ObserveDecision(string(res.Category), string(action), outcome)
	}
	if decision.Allowed {
		return nil
	}

	logger.WithRequestID(ctx, g.logger).Debug("access denied",
		zap.String("caller_id", caller.ID),
		zap.String("action", string(action)),
		zap.String("category", string(res.Category)),
		zap.String("reason", string(decision.Reason)),
	)
	return DenialError(decision.Reason)
}

// Allows reports whether caller may perform action on res, with the same recording and logging
// as Authorize.
func (g *Gate) Allows(ctx context.Context, caller policy.Caller, action policy.Action, res policy.Resource) bool {
	return g.Authorize(ctx, caller, action, res) == nil
}

// FilterCourses keeps the courses the caller may see in the catalog.
func (g *Gate) FilterCourses(caller policy.Caller, courses []domain.Course) []domain.Course {
	visible := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		res := policy.Resource{Category: policy.CategoryCourse, CourseType: course.CourseType}
		if policy.Evaluate(caller, policy.ActionRead, res).Allowed {
			visible = append(visible, course)
		}
	}
	return visible
}

// Guard rejects the request before next runs unless the caller may perform action on category.
func (g *Gate) Guard(action policy.Action, category policy.Category, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if err := g.Authorize(ctx, CallerFrom(ctx), action, policy.Resource{Category: category}); err != nil {
			transport.WriteError(ctx, err)
			return
		}
		next(ctx)
	}
}

// DenialError maps a denial reason to its transport class.
func DenialError(reason policy.Reason) *domain.Error {
	switch reason {
	case policy.ReasonUnauthenticated:
		return domain.NewError(domain.ErrCodeUnauthorized, string(reason), "authentication required")
	case policy.ReasonForbiddenNotAdmin:
		return domain.NewError(domain.ErrCodeForbidden, string(reason), "administrator role required")
	case policy.ReasonForbiddenNotOwner:
		return domain.NewError(domain.ErrCodeForbidden, string(reason), "record belongs to another user")
	case policy.ReasonNotApproved:
		return domain.NewError(domain.ErrCodeForbidden, string(reason), "account is awaiting approval")
	case policy.ReasonMentorshipRequired:
		return domain.NewError(domain.ErrCodeForbidden, string(reason), "mentorship access required")
	case policy.ReasonSetupAlreadyComplete:
		return domain.ErrSetupAlreadyComplete
	default:
		return domain.NewError(domain.ErrCodeForbidden, domain.ReasonForbiddenDefault, "access denied")
	}
}
