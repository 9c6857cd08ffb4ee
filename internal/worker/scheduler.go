package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled task. Errors are logged; the schedule continues.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron specs in a fixed location. Overlapping runs of
// the same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

func NewScheduler(ctx context.Context, loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:     ctx,
		timeout: timeout,
	}
}

// Add registers job under name. An empty spec leaves the job disabled.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		slog.Info("Scheduled job disabled", "job", name)
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	slog.Info("Scheduled job registered", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := job(ctx); err != nil {
		slog.ErrorContext(ctx, "Scheduled job failed", "job", name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	slog.InfoContext(ctx, "Scheduled job finished", "job", name, "duration_ms", time.Since(start).Milliseconds())
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, append([]any{"component", "cron"}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]any{"component", "cron", "error", err}, keysAndValues...)...)
}
