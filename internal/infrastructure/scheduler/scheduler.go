package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// FuncJob adapts a plain function to Job.
type FuncJob struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncJob creates a named job that calls fn.
func NewFuncJob(name string, fn func(ctx context.Context) error) *FuncJob {
	return &FuncJob{name: name, fn: fn}
}

// Name returns the job name.
func (j *FuncJob) Name() string { return j.name }

// Run calls the wrapped function.
func (j *FuncJob) Run(ctx context.Context) error { return j.fn(ctx) }

// Scheduler runs jobs on cron schedules. A job still running when its next
// tick arrives is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// New creates a new scheduler. timeout bounds a single job run.
func New(log zerolog.Logger, timeout time.Duration) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		)),
		log:     log,
		timeout: timeout,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

// AddJob registers a job with a cron schedule
// Schedule examples:
//   - "*/5 * * * *"  - Every 5 minutes
//   - "@hourly"      - Every hour
//   - "@every 30s"   - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.RunNow(context.Background(), job)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.log.Debug().Str("job", job.Name()).Msg("running job")

	if err := job.Run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Dur("duration", time.Since(start)).Msg("job failed")
		return err
	}

	s.log.Debug().Str("job", job.Name()).Dur("duration", time.Since(start)).Msg("job completed")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
