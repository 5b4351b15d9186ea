// Package analytics serves the admin dashboard figures.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/repository"
	"github.com/fastygo/clubportal/usecase"
)

const (
	defaultActiveWindow = 30 * 24 * time.Hour
	defaultHistoryLimit = 30
	maxHistoryLimit     = 500
)

type UseCase struct {
	source       repository.AnalyticsRepository
	snapshots    repository.SnapshotRepository
	gate         usecase.Gate
	activeWindow time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func New(source repository.AnalyticsRepository, snapshots repository.SnapshotRepository, gate usecase.Gate, activeWindow time.Duration, logger *zap.Logger) *UseCase {
	if activeWindow <= 0 {
		activeWindow = defaultActiveWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		source:       source,
		snapshots:    snapshots,
		gate:         gate,
		activeWindow: activeWindow,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary computes the live overview. Users count as active when they logged in within the
// active window.
func (uc *UseCase) Summary(ctx context.Context, caller policy.Caller) (*domain.AnalyticsSummary, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryAdminOnlyContent}); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	summary, err := uc.source.Summary(ctx, now.Add(-uc.activeWindow))
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = now
	return summary, nil
}

// History lists recorded snapshots, newest first.
func (uc *UseCase) History(ctx context.Context, caller policy.Caller, limit int) ([]domain.AnalyticsSummary, error) {
	if err := uc.gate.Authorize(ctx, caller, policy.ActionRead, policy.Resource{Category: policy.CategoryAdminOnlyContent}); err != nil {
		return nil, err
	}
	if uc.snapshots == nil {
		return []domain.AnalyticsSummary{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return uc.snapshots.List(ctx, limit)
}
