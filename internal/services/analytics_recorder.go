// Package services hosts background jobs that run beside the HTTP server.
package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/clubportal/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RecorderConfig controls how often summaries are captured and how long they are kept.
type RecorderConfig struct {
	Schedule     string
	Retention    time.Duration
	ActiveWindow time.Duration
	Timeout      time.Duration
}

// AnalyticsRecorder captures the analytics summary on a cron schedule into the snapshot store
// and prunes entries older than the retention window.
type AnalyticsRecorder struct {
	source    repository.AnalyticsRepository
	snapshots repository.SnapshotRepository
	monitor   ConnectionHealth
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       RecorderConfig
	now       func() time.Time
}

func NewAnalyticsRecorder(
	source repository.AnalyticsRepository,
	snapshots repository.SnapshotRepository,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg RecorderConfig,
) (*AnalyticsRecorder, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 90 * 24 * time.Hour
	}
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = 30 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &AnalyticsRecorder{
		source:    source,
		snapshots: snapshots,
		monitor:   monitor,
		logger:    logger,
		cfg:       cfg,
		cron:      cron.New(),
		now:       time.Now,
	}

	if _, err := r.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := r.Record(ctx); err != nil {
			r.logger.Error("analytics snapshot failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// Start launches the cron scheduler.
func (r *AnalyticsRecorder) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("analytics recorder started", zap.String("schedule", r.cfg.Schedule))
}

// Stop waits for a running job to finish or for ctx to expire.
func (r *AnalyticsRecorder) Stop(ctx context.Context) error {
	if r == nil || r.cron == nil {
		return nil
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	r.logger.Info("analytics recorder stopped")
	return nil
}

// Record takes one snapshot and prunes expired ones. It is skipped while the stores are offline.
func (r *AnalyticsRecorder) Record(ctx context.Context) error {
	if r == nil || r.source == nil || r.snapshots == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping analytics snapshot (offline)")
		return nil
	}

	now := r.now().UTC()
	summary, err := r.source.Summary(ctx, now.Add(-r.cfg.ActiveWindow))
	if err != nil {
		return err
	}
	summary.GeneratedAt = now
	if err := r.snapshots.Save(ctx, summary); err != nil {
		return err
	}

	removed, err := r.snapshots.Prune(ctx, now.Add(-r.cfg.Retention))
	if err != nil {
		r.logger.Warn("analytics snapshot prune failed", zap.Error(err))
		return nil
	}
	if removed > 0 {
		r.logger.Info("pruned analytics snapshots", zap.Int("removed", removed))
	}
	return nil
}
