package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PruneFunc runs one pruning pass over a known directory.
type PruneFunc func(ctx context.Context) Result

// Scheduler runs extra pruning passes on a cron schedule. Pruning after
// every write still happens; the scheduler covers days on which nothing is
// written.
type Scheduler struct {
	schedule string
	prune    PruneFunc
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for a standard five-field cron
// expression, e.g. "0 3 * * *" for daily at 03:00. The schedule is evaluated
// in UTC so that it lines up with the day buckets.
func NewScheduler(schedule string, prune PruneFunc) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		prune:    prune,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		logger:   slog.Default().With("component", "exports.scheduler"),
	}
}

// Start registers the pruning job and starts the cron runner. The scheduler
// stops when ctx is cancelled. An empty schedule is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Debug("prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("retention scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	result := s.prune(ctx)
	s.logger.Info("scheduled pruning completed",
		"scanned", result.Scanned,
		"deleted", result.Deleted,
		"failed", result.Failed,
	)
}

// Stop stops the scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pass, or false when nothing is
// scheduled.
func (s *Scheduler) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[0].Next, true
}
