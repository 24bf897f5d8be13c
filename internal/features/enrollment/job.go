package enrollment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
)

// RecountJob repairs courses.total_enrollment for every course.
type RecountJob struct {
	db       *gorm.DB
	registry *Registry
}

// NewRecountJob creates the job.
func NewRecountJob(db *gorm.DB, registry *Registry) *RecountJob {
	return &RecountJob{db: db, registry: registry}
}

// Name identifies the job in logs and metrics.
func (j *RecountJob) Name() string { return "enrollment-recount" }

// Execute recounts each course, continuing past individual failures.
func (j *RecountJob) Execute(ctx context.Context) error {
	ids, err := course.IDs(ctx, j.db)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.registry.Recount(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("course %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
