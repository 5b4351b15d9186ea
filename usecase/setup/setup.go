// Package setup bootstraps the first administrator and the default site content.
package setup

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/internal/security"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

// TokenIssuer opens a session for a freshly created account.
type TokenIssuer interface {
	IssueFor(ctx context.Context, user *domain.User) (*domain.TokenResponse, error)
}

// InitializeInput describes the first administrator.
type InitializeInput struct {
	FullName string
	Email    string
	Password string
}

// Stores groups the repositories the bootstrap writes to.
type Stores struct {
	Tx      repository.TxManager
	Setup   repository.SetupRepository
	Users   repository.UserRepository
	Courses repository.CourseRepository
	Modules repository.ModuleRepository
	Content repository.ContentRepository
	Audit   repository.AuditRepository
}

type UseCase struct {
	stores Stores
	gate   usecase.Gate
	hasher *security.PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

func New(stores Stores, gate usecase.Gate, hasher *security.PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stores: stores,
		gate:   gate,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Status reports whether the bootstrap already ran.
func (uc *UseCase) Status(ctx context.Context, caller policy.Caller) (bool, error) {
	complete, err := uc.stores.Setup.IsComplete(ctx)
	if err != nil {
		return false, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategorySystemSetup, SetupComplete: complete}); err != nil {
		return false, err
	}
	return complete, nil
}

// Initialize creates the first administrator and seeds the default content. It succeeds at most
// once per installation; concurrent calls race on the setup claim and exactly one wins.
func (uc *UseCase) Initialize(ctx context.Context, caller policy.Caller, in InitializeInput) (*domain.TokenResponse, error) {
	complete, err := uc.stores.Setup.IsComplete(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.gate.Authorize(ctx, caller, policy.ActionInitialize, policy.Resource{Category: policy.CategorySystemSetup, SetupComplete: complete}); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidPayload
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, domain.ReasonValidation, "password cannot be used", err)
	}
	admin := domain.NewBootstrapAdmin(uuid.NewString(), in.FullName, in.Email, hash)

	err = uc.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		claimed, err := uc.stores.Setup.Claim(ctx, admin.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrSetupAlreadyComplete
		}

		admins, err := uc.stores.Users.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins > 0 {
			return domain.ErrSetupAlreadyComplete
		}

		if err := uc.stores.Users.Create(ctx, admin); err != nil {
			return err
		}
		if err := uc.seed(ctx); err != nil {
			return err
		}

		return uc.stores.Audit.Append(ctx, usecase.AuditEvent(ctx, policy.CallerFromUser(admin), "system", "setup", "system.initialize",
			map[string]string{"email": admin.Email}))
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("system initialized", zap.String("admin_id", admin.ID))
	return uc.tokens.IssueFor(ctx, admin)
}

func (uc *UseCase) seed(ctx context.Context) error {
	for _, section := range defaultHomepage {
		section := section
		if err := uc.stores.Content.UpsertHomepage(ctx, &section); err != nil {
			return err
		}
	}
	for _, leader := range defaultLeadership {
		leader := leader
		if err := uc.stores.Content.SaveLeader(ctx, &leader); err != nil {
			return err
		}
	}
	coach := defaultCoach
	if err := uc.stores.Content.ReplaceCoach(ctx, &coach); err != nil {
		return err
	}

	for _, seed := range defaultCourses {
		course := seed.course
		if err := uc.stores.Courses.Create(ctx, &course); err != nil {
			return err
		}
		for _, module := range seed.modules {
			module := module
			module.CourseID = course.ID
			if err := uc.stores.Modules.Create(ctx, &module); err != nil {
				return err
			}
		}
	}
	return nil
}
