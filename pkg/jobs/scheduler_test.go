package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
)

type recordingJob struct {
	calls       int
	err         error
	sawDeadline bool
}

func (j *recordingJob) Name() string { return "recording" }

func (j *recordingJob) Execute(ctx context.Context) error {
	j.calls++
	_, j.sawDeadline = ctx.Deadline()
	return j.err
}

func TestRunBoundsJobWithTimeout(t *testing.T) {
	s := NewScheduler(logger.Discard(), time.Minute)
	defer s.Stop()

	job := &recordingJob{err: errors.New("boom")}
	s.Run(job)

	if job.calls != 1 || !job.sawDeadline {
		t.Fatalf("calls=%d deadline=%v", job.calls, job.sawDeadline)
	}
}

func TestEveryRegistersJob(t *testing.T) {
	s := NewScheduler(logger.Discard(), time.Minute)
	defer s.Stop()

	if err := s.Every(time.Hour, &recordingJob{}); err != nil {
		t.Fatalf("every: %v", err)
	}
	if n := len(s.cron.Jobs()); n != 1 {
		t.Fatalf("jobs = %d", n)
	}
}
