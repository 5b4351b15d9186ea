package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/memstore"
	"github.com/fastygo/clubportal/internal/policy"
)

var admin = policy.Caller{ID: "admin", Role: domain.RoleAdmin, Status: domain.StatusApproved}

func TestSummary(t *testing.T) {
	store := memstore.NewStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Users().Create(ctx, domain.NewMember("recent", "Recent", "recent@example.com", "h")))
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("stale", "Stale", "stale@example.com", "h")))
	require.NoError(t, store.Users().TouchLogin(ctx, "recent", now.Add(-24*time.Hour)))
	require.NoError(t, store.Users().TouchLogin(ctx, "stale", now.Add(-60*24*time.Hour)))

	uc := New(store.Analytics(), store.Snapshots(), gate.New(nil, nil), 0, nil)
	uc.now = func() time.Time { return now }

	summary, err := uc.Summary(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalUsers)
	assert.Equal(t, 2, summary.PendingUsers)
	assert.Equal(t, 1, summary.ActiveUsers)
	assert.Equal(t, now, summary.GeneratedAt)

	_, err = uc.Summary(ctx, policy.Caller{ID: "recent", Role: domain.RoleMember, Status: domain.StatusApproved})
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))
}

func TestHistory(t *testing.T) {
	store := memstore.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Snapshots().Save(ctx, &domain.AnalyticsSummary{TotalUsers: i, GeneratedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	uc := New(store.Analytics(), store.Snapshots(), gate.New(nil, nil), time.Hour, nil)

	history, err := uc.History(ctx, admin, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].TotalUsers)

	history, err = uc.History(ctx, admin, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = uc.History(ctx, policy.Anonymous, 10)
	assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))

	empty := New(store.Analytics(), nil, gate.New(nil, nil), time.Hour, nil)
	history, err = empty.History(ctx, admin, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
