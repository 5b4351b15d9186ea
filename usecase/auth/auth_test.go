package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/memstore"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/internal/security"
	redisRepo "github.com/fastygo/clubportal/repository/redis"
)

func newUseCase(t *testing.T) (*UseCase, *memstore.Store) {
	t.Helper()
	store := memstore.NewStore()
	uc := New(
		store.Users(),
		store.Sessions(),
		security.NewPasswordHasher(bcrypt.MinCost),
		security.NewTokenIssuer("test-secret", "clubportal", time.Hour),
		nil,
	)
	return uc, store
}

func signup(t *testing.T, uc *UseCase, email string) *domain.TokenResponse {
	t.Helper()
	resp, err := uc.Signup(context.Background(), SignupInput{FullName: "Ada", Email: email, Password: "s3cret-pass", Batch: " 2024 "})
	require.NoError(t, err)
	return resp
}

func TestSignup(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	resp := signup(t, uc, "Ada@Example.com")
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, domain.RoleMember, resp.User.Role)
	assert.Equal(t, domain.StatusPending, resp.User.Status)
	assert.False(t, resp.User.MentorshipAccess)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "2024", resp.User.Batch)

	identity, err := uc.Resolve(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.Caller.ID)
	assert.Equal(t, domain.StatusPending, identity.Caller.Status)

	_, err = uc.Signup(ctx, SignupInput{FullName: "Imposter", Email: "ada@example.com", Password: "other-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))

	_, err = uc.Signup(ctx, SignupInput{Email: "x@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestSignup_ReusesArchivedEmail(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	first := signup(t, uc, "ada@example.com")
	_, err := store.Users().ApplyTransition(ctx, first.User.ID, domain.TransitionArchive)
	require.NoError(t, err)

	second := signup(t, uc, "ada@example.com")
	assert.NotEqual(t, first.User.ID, second.User.ID)
}

func TestLogin(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	created := signup(t, uc, "ada@example.com")

	t.Run("Should sign in and record the login", func(t *testing.T) {
		resp, err := uc.Login(ctx, " ADA@example.com ", "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, resp.User.LastLoginAt)

		stored, err := store.Users().GetByID(ctx, created.User.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("Should flatten credential failures", func(t *testing.T) {
		_, wrongPassword := uc.Login(ctx, "ada@example.com", "nope")
		_, unknownEmail := uc.Login(ctx, "bob@example.com", "s3cret-pass")
		assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
		assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(unknownEmail))
	})

	t.Run("Should refuse archived accounts", func(t *testing.T) {
		_, err := store.Users().ApplyTransition(ctx, created.User.ID, domain.TransitionArchive)
		require.NoError(t, err)

		_, err = uc.Login(ctx, "ada@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Should surface store failures", func(t *testing.T) {
		store.FailWith(errors.New("connection refused"))
		defer store.FailWith(nil)

		_, err := uc.Login(ctx, "ada@example.com", "s3cret-pass")
		assert.Equal(t, domain.ReasonStoreUnavailable, domain.ReasonOf(err))
	})
}

func TestResolve(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	resp := signup(t, uc, "ada@example.com")
	claims, err := uc.tokens.Parse(resp.AccessToken)
	require.NoError(t, err)

	t.Run("Should treat missing and malformed tokens as anonymous", func(t *testing.T) {
		for _, bearer := range []string{"", "not-a-token"} {
			identity, err := uc.Resolve(ctx, bearer)
			require.NoError(t, err)
			assert.Equal(t, policy.Anonymous, identity.Caller)
		}
	})

	t.Run("Should reflect lifecycle changes immediately", func(t *testing.T) {
		_, err := store.Users().ApplyTransition(ctx, resp.User.ID, domain.TransitionApprove)
		require.NoError(t, err)
		_, err = store.Users().ApplyTransition(ctx, resp.User.ID, domain.TransitionGrantMentor)
		require.NoError(t, err)

		identity, err := uc.Resolve(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, identity.Caller.HasMentorship())
		assert.Equal(t, claims.SessionID, identity.SessionID)
	})

	t.Run("Should report store outages", func(t *testing.T) {
		store.FailWith(errors.New("timeout"))
		defer store.FailWith(nil)

		identity, err := uc.Resolve(ctx, resp.AccessToken)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
		assert.True(t, identity.Caller.IsAnonymous())
	})

	t.Run("Should resolve archived users as anonymous", func(t *testing.T) {
		_, err := store.Users().ApplyTransition(ctx, resp.User.ID, domain.TransitionArchive)
		require.NoError(t, err)

		identity, err := uc.Resolve(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, identity.Caller.IsAnonymous())
	})
}

func TestLogoutAndRefresh(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	ada := signup(t, uc, "ada@example.com")
	bob := signup(t, uc, "bob@example.com")

	adaIdentity, err := uc.Resolve(ctx, ada.AccessToken)
	require.NoError(t, err)
	bobIdentity, err := uc.Resolve(ctx, bob.AccessToken)
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, adaIdentity.Caller, adaIdentity.SessionID)
	require.NoError(t, err)
	assert.Equal(t, ada.User.ID, refreshed.User.ID)

	_, err = uc.Refresh(ctx, adaIdentity.Caller, bobIdentity.SessionID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Refresh(ctx, policy.Anonymous, adaIdentity.SessionID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.Logout(ctx, adaIdentity.SessionID))
	identity, err := uc.Resolve(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.True(t, identity.Caller.IsAnonymous())

	assert.ErrorIs(t, uc.Logout(ctx, ""), domain.ErrUnauthorized)
}

func TestRefresh_OutlivesOriginalExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memstore.NewStore()
	uc := New(
		store.Users(),
		redisRepo.NewSessionRepository(client, time.Hour),
		security.NewPasswordHasher(bcrypt.MinCost),
		security.NewTokenIssuer("test-secret", "clubportal", time.Hour),
		nil,
	)
	start := time.Now()
	elapsed := time.Duration(0)
	uc.now = func() time.Time { return start.Add(elapsed) }
	ctx := context.Background()

	resp := signup(t, uc, "ada@example.com")
	identity, err := uc.Resolve(ctx, resp.AccessToken)
	require.NoError(t, err)

	elapsed = 50 * time.Minute
	mr.FastForward(elapsed)
	refreshed, err := uc.Refresh(ctx, identity.Caller, identity.SessionID)
	require.NoError(t, err)
	assert.True(t, refreshed.ExpiresAt.Equal(start.Add(110*time.Minute)))

	elapsed = 70 * time.Minute
	mr.FastForward(20 * time.Minute)
	after, err := uc.Resolve(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, after.Caller.ID)

	elapsed = 2 * time.Hour
	expired, err := uc.Resolve(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.True(t, expired.Caller.IsAnonymous())
}
