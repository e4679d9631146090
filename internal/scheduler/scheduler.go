package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Cycle is one full collect-enrich-load pass.
type Cycle func(ctx context.Context) error

// Scheduler owns the watch loop: one immediate cycle, then ticks on an
// interval. A failed cycle is logged and the loop keeps going.
type Scheduler struct {
	cycle    Cycle
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler that runs the cycle at the given interval.
func New(cycle Cycle, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycle:    cycle,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.cycle(ctx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}
}
