package dataset

// scheduler.go reloads the dataset on a fixed interval so the first request
// after expiry does not pay for the fetch.
//
// The scheduler is long-running and context-aware for graceful shutdown. A
// failed reload is logged and the previous snapshot keeps being served.

import (
	"context"
	"log/slog"
	"time"
)

// SchedulerConfig controls StartRefreshScheduler.
type SchedulerConfig struct {
	Interval   time.Duration // how often to reload (default: 1h)
	RunOnStart bool          // reload immediately before the first tick
}

// StartRefreshScheduler blocks, reloading the cache every Interval until ctx
// is cancelled. Run it in its own goroutine.
func (c *Cache) StartRefreshScheduler(ctx context.Context, cfg SchedulerConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	slog.Info("dataset refresh scheduler started",
		"source", c.source.Name(),
		"interval", cfg.Interval.String(),
	)

	if cfg.RunOnStart {
		c.runRefreshJob(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dataset refresh scheduler stopped")
			return
		case <-ticker.C:
			c.runRefreshJob(ctx)
		}
	}
}

// runRefreshJob performs one scheduled reload.
func (c *Cache) runRefreshJob(ctx context.Context) {
	start := time.Now()
	snap, err := c.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("scheduled dataset refresh failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	slog.Debug("scheduled dataset refresh completed",
		"generation", snap.Generation,
		"records", len(snap.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
