package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mo-amir99/coursehub-server-go/pkg/metrics"
)

// Job represents a background job.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler runs jobs on fixed intervals. A job never overlaps with itself.
type Scheduler struct {
	cron    *gocron.Scheduler
	logger  *slog.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler whose runs are bounded by timeout.
func NewScheduler(logger *slog.Logger, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{cron: cron, logger: logger, timeout: timeout, ctx: ctx, cancel: cancel}
}

// Every registers job to run each interval, starting one interval from now.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	_, err := s.cron.Every(interval).
		StartAt(time.Now().Add(interval)).
		Tag(job.Name()).
		Do(s.Run, job)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	return nil
}

// Run executes job once with the scheduler's timeout and records the outcome.
func (s *Scheduler) Run(job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Execute(ctx)
	metrics.IncJobRun(job.Name(), err)

	if err != nil {
		s.logger.Error("job failed",
			slog.String("job", job.Name()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("job completed",
		slog.String("job", job.Name()),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// Start begins the scheduler loop in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.logger.Info("job scheduler started", slog.Int("jobs", len(s.cron.Jobs())))
}

// Stop cancels in-flight runs and halts the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()
	s.logger.Info("job scheduler stopped")
}
