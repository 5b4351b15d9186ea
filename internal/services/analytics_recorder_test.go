package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/memstore"
)

type onlineFlag bool

func (o onlineFlag) IsOnline() bool { return bool(o) }

func TestAnalyticsRecorder_Record(t *testing.T) {
	store := memstore.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("u1", "Ada", "ada@example.com", "hash")))

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Snapshots().Save(ctx, &domain.AnalyticsSummary{GeneratedAt: now.Add(-100 * 24 * time.Hour)}))

	rec, err := NewAnalyticsRecorder(store.Analytics(), store.Snapshots(), onlineFlag(true), nil, RecorderConfig{})
	require.NoError(t, err)
	rec.now = func() time.Time { return now }

	require.NoError(t, rec.Record(ctx))

	items, err := store.Snapshots().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].TotalUsers)
	assert.Equal(t, now, items[0].GeneratedAt)
}

func TestAnalyticsRecorder_SkipsWhileOffline(t *testing.T) {
	store := memstore.NewStore()
	rec, err := NewAnalyticsRecorder(store.Analytics(), store.Snapshots(), onlineFlag(false), nil, RecorderConfig{})
	require.NoError(t, err)

	require.NoError(t, rec.Record(context.Background()))
	items, err := store.Snapshots().List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAnalyticsRecorder_SurfacesStoreFailures(t *testing.T) {
	store := memstore.NewStore()
	rec, err := NewAnalyticsRecorder(store.Analytics(), store.Snapshots(), nil, nil, RecorderConfig{})
	require.NoError(t, err)

	store.FailWith(errors.New("connection refused"))
	err = rec.Record(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestAnalyticsRecorder_InvalidSchedule(t *testing.T) {
	_, err := NewAnalyticsRecorder(nil, nil, nil, nil, RecorderConfig{Schedule: "every now and then"})
	assert.Error(t, err)
}

func TestAnalyticsRecorder_StartStop(t *testing.T) {
	rec, err := NewAnalyticsRecorder(nil, nil, nil, nil, RecorderConfig{Schedule: "@every 1h"})
	require.NoError(t, err)
	rec.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, rec.Stop(ctx))
}
