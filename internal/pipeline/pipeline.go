package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/dashboard"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Refresher is the part of the dashboard the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
	LoadBorders(ctx context.Context)
}

// Scheduler loads the border overlay once, refreshes immediately, and then
// refreshes on a fixed period until its context is cancelled.
type Scheduler struct {
	dash     Refresher
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Scheduler. A nil clock means real time.
func New(dash Refresher, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		dash:     dash,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once a refresh has been applied successfully,
// or an error describing why the service is not yet ready.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no refresh has succeeded yet")
	}
	return nil
}

// Ready reports whether a refresh has succeeded.
func (s *Scheduler) Ready() bool {
	return s.ready.Load()
}

// Run executes the refresh loop until the context is cancelled. The border
// load runs concurrently with the first refresh; neither waits for the other.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.dash.LoadBorders(ctx)
	}()

	s.tick(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

// tick runs one refresh. Failures are already reported by the dashboard;
// the next tick is the only retry.
func (s *Scheduler) tick(ctx context.Context) {
	err := s.dash.Refresh(ctx)
	switch {
	case err == nil:
		s.ready.Store(true)
	case errors.Is(err, dashboard.ErrSuperseded):
		s.logger.Debug("scheduled refresh superseded by a user action")
	case ctx.Err() != nil:
		return
	}
}
