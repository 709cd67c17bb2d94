package audit

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls the pruning loop. A zero MaxAge disables it.
type RetentionConfig struct {
	MaxAge        time.Duration
	CheckInterval time.Duration // default: 1h
}

// RunRetention prunes entries older than cfg.MaxAge. It runs once
// immediately, then every CheckInterval, until ctx is cancelled.
func RunRetention(ctx context.Context, store Store, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}

	slog.Info("audit retention started",
		"max_age", cfg.MaxAge.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	pruneOnce(ctx, store, cfg.MaxAge)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention stopped")
			return
		case <-ticker.C:
			pruneOnce(ctx, store, cfg.MaxAge)
		}
	}
}

func pruneOnce(ctx context.Context, store Store, maxAge time.Duration) {
	start := time.Now()
	pruned, err := store.Prune(ctx, start.Add(-maxAge).UTC())
	if err != nil {
		slog.Error("audit prune failed", "error", err)
		return
	}
	slog.Info("pruned audit entries",
		"entries_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
