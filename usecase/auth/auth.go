package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/internal/security"
	"github.com/fastygo/clubportal/pkg/logger"
	"github.com/fastygo/clubportal/repository"
)

const tokenType = "bearer"

// SignupInput is a public registration request.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Batch    string
	Reason   string
}

// Identity is the outcome of resolving a bearer credential.
type Identity struct {
	Caller    policy.Caller
	SessionID string
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenIssuer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Signup registers a pending member and signs them in.
func (uc *UseCase) Signup(ctx context.Context, in SignupInput) (*domain.TokenResponse, error) {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidPayload
	}

	if _, err := uc.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, domain.ReasonValidation, "password cannot be used", err)
	}

	user := domain.NewMember(uuid.NewString(), in.FullName, in.Email, hash)
	user.Batch = strings.TrimSpace(in.Batch)
	user.Reason = strings.TrimSpace(in.Reason)
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("member signed up", zap.String("user_id", user.ID))
	return uc.IssueFor(ctx, user)
}

// Login verifies credentials. Unknown emails, archived accounts and wrong passwords are
// indistinguishable to the client.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.IsArchived() || !uc.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	at := uc.now().UTC()
	if err := uc.users.TouchLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	user.LastLoginAt = &at

	return uc.IssueFor(ctx, user)
}

// IssueFor opens a new session for user and signs a token bound to it.
func (uc *UseCase) IssueFor(ctx context.Context, user *domain.User) (*domain.TokenResponse, error) {
	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.tokens.TTL()),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return uc.respond(user, session)
}

// Logout drops the session behind the caller's token.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrUnauthorized
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// Refresh extends the caller's session and re-signs the token.
func (uc *UseCase) Refresh(ctx context.Context, caller policy.Caller, sessionID string) (*domain.TokenResponse, error) {
	if caller.IsAnonymous() || sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != caller.ID {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if user.IsArchived() {
		return nil, domain.ErrUnauthorized
	}

	expiresAt := uc.now().Add(uc.tokens.TTL())
	if err := uc.sessions.Extend(ctx, sessionID, expiresAt); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	session.ExpiresAt = expiresAt
	return uc.respond(user, session)
}

// Resolve turns a bearer token into the request's caller. Anything that does not identify a
// live, non-archived account resolves to Anonymous; only store failures are errors.
func (uc *UseCase) Resolve(ctx context.Context, bearer string) (Identity, error) {
	anonymous := Identity{Caller: policy.Anonymous}
	if bearer == "" {
		return anonymous, nil
	}

	claims, err := uc.tokens.Parse(bearer)
	if err != nil {
		return anonymous, nil
	}

	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return anonymous, nil
		}
		return anonymous, err
	}
	if session.UserID != claims.Subject || session.IsExpired(uc.now()) {
		return anonymous, nil
	}

	user, err := uc.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return anonymous, nil
		}
		return anonymous, err
	}
	if user.IsArchived() {
		return anonymous, nil
	}

	return Identity{Caller: policy.CallerFromUser(user), SessionID: session.ID}, nil
}

func (uc *UseCase) respond(user *domain.User, session *domain.Session) (*domain.TokenResponse, error) {
	token, err := uc.tokens.Issue(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   session.ExpiresAt,
		User:        user,
	}, nil
}
