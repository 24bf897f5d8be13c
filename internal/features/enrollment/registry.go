package enrollment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/database"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
)

// Registry answers and records enrollments.
type Registry struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRegistry creates a registry over db.
func NewRegistry(db *gorm.DB, logger *slog.Logger) *Registry {
	return &Registry{db: db, logger: logger}
}

// IsEnrolled is a single point read; results are never cached.
func (r *Registry) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Enroll registers a student for a published course and refreshes the course's
// enrollment total.
func (r *Registry) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (Enrollment, error) {
	if _, err := course.GetPublished(ctx, r.db, courseID); err != nil {
		return Enrollment{}, err
	}

	enrolled, err := r.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if enrolled {
		return Enrollment{}, ErrAlreadyEnrolled
	}

	record := Enrollment{StudentID: studentID, CourseID: courseID}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return Enrollment{}, ErrAlreadyEnrolled
		}
		return Enrollment{}, err
	}

	if err := r.Recount(ctx, courseID); err != nil {
		r.logger.Warn("enrollment total not refreshed",
			slog.String("courseId", courseID.String()),
			slog.String("error", err.Error()))
	}

	return record, nil
}

// Recount recomputes courses.total_enrollment from the enrollments table.
func (r *Registry) Recount(ctx context.Context, courseID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return fmt.Errorf("count enrollments: %w", err)
	}
	return course.SetTotalEnrollment(ctx, r.db, courseID, int(count))
}

// Courses lists a student's enrolled courses, most recent enrollment first.
func (r *Registry) Courses(ctx context.Context, studentID uuid.UUID, params pagination.Params) ([]EnrolledCourse, int64, error) {
	query := r.db.WithContext(ctx).
		Table("courses").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []EnrolledCourse
	err := query.
		Select("courses.*, enrollments.created_at AS enrolled_at").
		Order("enrollments.created_at DESC, courses.id ASC").
		Scopes(params.Scope).
		Find(&courses).Error
	return courses, total, err
}
