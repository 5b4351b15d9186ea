package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redislib.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionRepository_SaveAndGet(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(30 * time.Minute)}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	ttl := mr.TTL("clubportal:session:s1")
	assert.True(t, ttl > 0 && ttl <= 30*time.Minute)

	mr.FastForward(31 * time.Minute)
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_SaveRejectsIncompleteSessions(t *testing.T) {
	_, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)

	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Session{ID: "s1"}), domain.ErrInvalidPayload)
	assert.ErrorIs(t, repo.Save(context.Background(), nil), domain.ErrInvalidPayload)
}

func TestSessionRepository_DeleteAndExtend(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", UserID: "u1"}))

	expiresAt := time.Now().Add(2 * time.Hour).UTC()
	require.NoError(t, repo.Extend(ctx, "s1", expiresAt))
	ttl := mr.TTL("clubportal:session:s1")
	assert.True(t, ttl > 119*time.Minute && ttl <= 2*time.Hour, ttl.String())
	assert.True(t, mr.TTL("clubportal:user_sessions:u1") >= ttl)

	extended, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, extended.ExpiresAt.Equal(expiresAt))

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, repo.Delete(ctx, "s1"))
	assert.ErrorIs(t, repo.Extend(ctx, "s1", time.Now().Add(time.Minute)), domain.ErrSessionNotFound)
}

func TestSessionRepository_RevokeUser(t *testing.T) {
	_, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", UserID: "u1"}))
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s2", UserID: "u1"}))
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s3", UserID: "u2"}))

	removed, err := repo.RevokeUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, id := range []string{"s1", "s2"} {
		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}
	_, err = repo.Get(ctx, "s3")
	assert.NoError(t, err)
}

func TestSessionRepository_UnavailableStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	repo := NewSessionRepository(client, time.Hour)
	mr.Close()

	_, err = repo.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestSessionRepository_ExtendOutlivesOriginalExpiry(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))

	mr.FastForward(50 * time.Minute)
	require.NoError(t, repo.Extend(ctx, "s1", time.Now().Add(110*time.Minute)))

	mr.FastForward(20 * time.Minute)
	session, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, session.IsExpired(time.Now().Add(70*time.Minute)))

	removed, err := repo.RevokeUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
