package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/service"
)

// SnapshotWorker periodically runs the daily stock sweep. The sweep lock
// makes the interval safe: a store already handled today is skipped, so
// frequent ticks only pick up stores that missed an earlier run.
type SnapshotWorker struct {
	monitoring *service.MonitoringService
	interval   time.Duration
}

// NewSnapshotWorker constructs a SnapshotWorker.
func NewSnapshotWorker(monitoring *service.MonitoringService, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		monitoring: monitoring,
		interval:   interval,
	}
}

// Start begins the periodic sweep loop and listens for context cancellation.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting snapshot worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.monitoring.SweepAll(ctx); err != nil {
		log.Error().Err(err).Msg("Daily stock sweep failed")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("Daily stock sweep completed")
}
