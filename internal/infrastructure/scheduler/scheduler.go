package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc is a unit of periodic work.
type JobFunc func(ctx context.Context) error

// Scheduler runs named jobs on cron specs. A job that is still running when
// its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	timeout time.Duration
	ctx     context.Context
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for job results.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithJobTimeout bounds each job run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// New creates a Scheduler in UTC.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:  zerolog.Nop(),
		timeout: 5 * time.Minute,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return s
}

// Add registers job under name. spec uses the standard five-field syntax or
// descriptors such as @hourly.
func (s *Scheduler) Add(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	event := s.logger.Info()
	if err != nil {
		event = s.logger.Error().Err(err)
	}
	event.Str("job", name).Dur("duration", time.Since(start)).Msg("scheduled job finished")
}

// Start runs the scheduler until ctx is cancelled, then waits for running
// jobs to return.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
	return ctx.Err()
}
