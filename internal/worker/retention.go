package worker

import (
	"context"
	"log/slog"
	"time"
)

// RetentionStore defines the store operations needed by the retention worker.
type RetentionStore interface {
	PurgeContactedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker periodically purges contacted budget requests older
// than the configured TTL. It only runs when a TTL is configured.
type RetentionWorker struct {
	store    RetentionStore
	ttl      time.Duration
	interval time.Duration
}

// NewRetentionWorker creates a worker with the given store, TTL and interval.
func NewRetentionWorker(store RetentionStore, ttl, interval time.Duration) *RetentionWorker {
	return &RetentionWorker{
		store:    store,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the worker loop. Purges immediately on start, then on each
// interval. Respects context cancellation for graceful shutdown.
func (w *RetentionWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "request-retention",
		"ttl", w.ttl.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.purge(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "request-retention",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

// purge removes expired contacted requests and logs the outcome.
func (w *RetentionWorker) purge(ctx context.Context) {
	cutoff := time.Now().Add(-w.ttl)

	purged, err := w.store.PurgeContactedBefore(ctx, cutoff)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("request purge failed",
			"component", "worker",
			"error", err,
		)
		return
	}

	if purged > 0 {
		slog.Info("requests purged",
			"component", "worker",
			"count", purged,
		)
	}
}
