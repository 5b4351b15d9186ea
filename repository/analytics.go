package repository

import (
	"context"
	"time"

	"github.com/fastygo/clubportal/domain"
)

type AnalyticsRepository interface {
	// Summary aggregates non-archived users and course progress. Users who logged in after
	// activeSince count as active.
	Summary(ctx context.Context, activeSince time.Time) (*domain.AnalyticsSummary, error)
}

// SnapshotRepository keeps a local history of analytics summaries.
type SnapshotRepository interface {
	Save(ctx context.Context, summary *domain.AnalyticsSummary) error
	List(ctx context.Context, limit int) ([]domain.AnalyticsSummary, error)
	Prune(ctx context.Context, before time.Time) (int, error)
}
