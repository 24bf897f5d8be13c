package feedback

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
)

// ReconcileJob recomputes every course rating, repairing lag left by a failed
// recompute after a write.
type ReconcileJob struct {
	db      *gorm.DB
	service *Service
}

// NewReconcileJob creates the job.
func NewReconcileJob(db *gorm.DB, service *Service) *ReconcileJob {
	return &ReconcileJob{db: db, service: service}
}

// Name identifies the job in logs and metrics.
func (j *ReconcileJob) Name() string { return "rating-reconcile" }

// Execute recomputes each course, continuing past individual failures.
func (j *ReconcileJob) Execute(ctx context.Context) error {
	ids, err := course.IDs(ctx, j.db)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := j.service.Recompute(ctx, id, "reconcile"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
