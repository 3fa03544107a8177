// Package scheduler triggers the daily rollover on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/balkashynov/focuslens/internal/logging"
	"github.com/balkashynov/focuslens/internal/parser"
)

// Job is the work run on every trigger
type Job func(ctx context.Context) error

// Scheduler runs a Job at most once per local calendar day
type Scheduler struct {
	schedule cron.Schedule
	cron     *cron.Cron
	job      Job
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastRun string
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now for the same-day guard and Next
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New parses a standard 5-field cron expression evaluated in local time
func New(schedule string, job Job, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Scheduler{
		schedule: sched,
		cron:     cron.New(cron.WithLocation(time.Local)),
		job:      job,
		log:      logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fire runs the job unless it already succeeded today. It reports whether the
// job ran.
func (s *Scheduler) Fire(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := parser.DayKey(s.now())
	if s.lastRun == today {
		s.log.Info("rollover already ran today, skipping", "day", today)
		return false, nil
	}

	if err := s.job(ctx); err != nil {
		s.log.Error("scheduled job failed", "error", err)
		return true, err
	}
	s.lastRun = today
	return true, nil
}

// Start registers the trigger and begins the cron loop in the background.
// ctx is handed to every job run.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.Fire(ctx)
	}))
	s.cron.Start()
	s.log.Info("scheduler started", "next", s.Next())
}

// Stop halts the cron loop and waits for a running job to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

// Next is the next trigger time
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(s.now())
}
