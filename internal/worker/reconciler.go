// Package worker runs background jobs on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"time"

	"computer-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reconcileTimeout = 30 * time.Second

// Scheduler sweeps booking statuses on a cron schedule (six fields, with seconds).
type Scheduler struct {
	cron       *cron.Cron
	reconciler usecase.Reconciler
	log        *zap.Logger
}

func NewScheduler(schedule string, reconciler usecase.Reconciler, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		reconciler: reconciler,
		log:        log.With(zap.String("worker", "reconciler")),
	}

	if _, err := s.cron.AddFunc(schedule, s.reconcile); err != nil {
		return nil, fmt.Errorf("schedule reconciler %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Reconciler started")
}

// Stop stops scheduling and waits for a running sweep, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Reconciler stopped")
	case <-ctx.Done():
		s.log.Warn("Reconciler stop timed out")
	}
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	// the service logs failures and non-empty results
	_, _ = s.reconciler.ReconcileStatuses(ctx)
}
