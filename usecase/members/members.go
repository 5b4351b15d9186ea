// Package members implements the administrator's view of the membership lifecycle.
package members

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

// Result reports the user after a transition and whether anything changed.
type Result struct {
	User    *domain.User `json:"user"`
	Changed bool         `json:"changed"`
}

type UseCase struct {
	tx       repository.TxManager
	users    repository.UserRepository
	sessions repository.SessionRepository
	audit    repository.AuditRepository
	gate     usecase.Gate
	cache    usecase.IdentityCache
	logger   *zap.Logger
}

func New(
	tx repository.TxManager,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	audit repository.AuditRepository,
	gate usecase.Gate,
	cache usecase.IdentityCache,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tx:       tx,
		users:    users,
		sessions: sessions,
		audit:    audit,
		gate:     gate,
		cache:    cache,
		logger:   logger,
	}
}

// List returns non-archived members, newest first.
func (uc *UseCase) List(ctx context.Context, caller policy.Caller, filter domain.UserFilter) ([]domain.User, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryUserRecord}); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("unknown status filter")
	}
	if filter.Status == domain.StatusArchived {
		return []domain.User{}, nil
	}
	return uc.users.List(ctx, filter)
}

// Approve moves a pending member to approved. Approving an approved member is a no-op.
func (uc *UseCase) Approve(ctx context.Context, caller policy.Caller, id string) (*Result, error) {
	return uc.transition(ctx, caller, id, domain.TransitionApprove, policy.ActionUpdate)
}

// SetMentorship grants or revokes the mentorship flag.
func (uc *UseCase) SetMentorship(ctx context.Context, caller policy.Caller, id string, grant bool) (*Result, error) {
	return uc.transition(ctx, caller, id, domain.MentorshipTransition(grant), policy.ActionUpdate)
}

// Archive retires an account for good and signs it out everywhere. Archiving an archived
// account succeeds with Changed false.
func (uc *UseCase) Archive(ctx context.Context, caller policy.Caller, id string) (*Result, error) {
	if err := uc.authorize(ctx, caller, policy.ActionArchive, id); err != nil {
		return nil, err
	}
	if id == caller.ID {
		return nil, domain.Invalid("administrators cannot archive their own account")
	}

	result, err := uc.apply(ctx, caller, id, domain.TransitionArchive)
	if errors.Is(err, domain.ErrAlreadyArchived) && result != nil {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	revoked, err := uc.sessions.RevokeUser(ctx, id)
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("failed to revoke sessions of archived user", zap.String("target_id", id), zap.Error(err))
	} else if revoked > 0 {
		logger.WithRequestID(ctx, uc.logger).Info("revoked sessions", zap.String("target_id", id), zap.Int("count", revoked))
	}
	return result, nil
}

// Audit lists recent administrative changes.
func (uc *UseCase) Audit(ctx context.Context, caller policy.Caller, limit int) ([]domain.AuditEvent, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryAdminOnlyContent}); err != nil {
		return nil, err
	}
	return uc.audit.List(ctx, limit)
}

func (uc *UseCase) authorize(ctx context.Context, caller policy.Caller, action policy.Action, id string) error {
	return uc.gate.Authorize(ctx, caller, action, policy.Resource{Category: policy.CategoryUserRecord, OwnerID: id})
}

func (uc *UseCase) transition(ctx context.Context, caller policy.Caller, id string, t domain.Transition, action policy.Action) (*Result, error) {
	if err := uc.authorize(ctx, caller, action, id); err != nil {
		return nil, err
	}
	return uc.apply(ctx, caller, id, t)
}

// apply runs t in one transaction together with its audit event. When the guard fails on an
// archived user the returned Result carries that user alongside ErrAlreadyArchived.
func (uc *UseCase) apply(ctx context.Context, caller policy.Caller, id string, t domain.Transition) (*Result, error) {
	var result *Result
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		before, err := uc.users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		after, err := uc.users.ApplyTransition(ctx, id, t)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyArchived) {
				result = &Result{User: before}
				if after != nil {
					result.User = after
				}
			}
			return err
		}

		result = &Result{
			User:    after,
			Changed: before.Status != after.Status || before.MentorshipAccess != after.MentorshipAccess,
		}
		if !result.Changed {
			return nil
		}

		return uc.audit.Append(ctx, usecase.AuditEvent(ctx, caller, "user", id, "user."+string(t), map[string]any{
			"from_status":       before.Status,
			"to_status":         after.Status,
			"mentorship_access": after.MentorshipAccess,
		}))
	})
	if uc.cache != nil {
		uc.cache.Invalidate(id)
	}
	if err != nil {
		return result, err
	}

	if result.Changed {
		logger.WithRequestID(ctx, uc.logger).Info("member updated",
			zap.String("target_id", id),
			zap.String("transition", string(t)),
			zap.String("status", string(result.User.Status)),
		)
	}
	return result, nil
}
