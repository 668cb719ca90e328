package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepScheduler triggers the lifecycle sweep on a cron schedule (daily at a
// fixed time by default). It holds no lifecycle logic of its own: the engine
// takes "now" as an input, the scheduler only decides when to call it.
type SweepScheduler struct {
	lifecycle LifecycleService
	schedule  string
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewSweepScheduler creates a scheduler that runs the sweep at the given
// cron expression (standard five-field syntax, e.g. "0 2 * * *").
func NewSweepScheduler(lifecycle LifecycleService, schedule string, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		lifecycle: lifecycle,
		schedule:  schedule,
		logger:    logger.Named("sweep-scheduler"),
	}
}

// Start registers the cron entry and begins scheduling. Sweep failures are
// logged and retried on the next tick; they never take the process down.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Lifecycle sweep scheduler started", zap.String("schedule", s.schedule))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts scheduling. A sweep already in flight runs to completion.
func (s *SweepScheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("Lifecycle sweep scheduler stopped")
	}
}

func (s *SweepScheduler) run(ctx context.Context) {
	result, err := s.lifecycle.Sweep(ctx)
	if err != nil {
		s.logger.Error("Lifecycle sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("Lifecycle sweep completed",
		zap.Int("needs_review", result.MarkedNeedsReview),
		zap.Int("expired", result.MarkedExpired),
		zap.Int("failed", result.Failed))
}
