package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "analytics.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, &domain.AnalyticsSummary{TotalUsers: i, GeneratedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	items, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].TotalUsers)
	assert.Equal(t, 1, items[1].TotalUsers)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestStore_SaveStampsGenerationTime(t *testing.T) {
	store := openStore(t)
	summary := &domain.AnalyticsSummary{TotalUsers: 4}

	require.NoError(t, store.Save(context.Background(), summary))
	assert.False(t, summary.GeneratedAt.IsZero())
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidPayload)
}

func TestStore_Prune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, &domain.AnalyticsSummary{TotalUsers: 1, GeneratedAt: now.Add(-100 * 24 * time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.AnalyticsSummary{TotalUsers: 2, GeneratedAt: now.Add(-95 * 24 * time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.AnalyticsSummary{TotalUsers: 3, GeneratedAt: now}))

	removed, err := store.Prune(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	items, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].TotalUsers)
}

func TestStore_Closed(t *testing.T) {
	var store *Store
	_, err := store.List(context.Background(), 1)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.NoError(t, store.Close())
}
