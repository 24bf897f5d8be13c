package watchlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/database"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Entry is a course a student saved for later.
type Entry struct {
	types.BaseModel

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_student_course,priority:1;column:student_id" json:"studentId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_student_course,priority:2;index;column:course_id" json:"courseId"`
}

// TableName overrides the default table name.
func (Entry) TableName() string { return "watchlist" }

// Add saves a published course for the student.
func Add(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (Entry, error) {
	if _, err := course.GetPublished(ctx, db, courseID); err != nil {
		return Entry{}, err
	}

	listed, err := Contains(ctx, db, studentID, courseID)
	if err != nil {
		return Entry{}, err
	}
	if listed {
		return Entry{}, ErrAlreadyListed
	}

	entry := Entry{StudentID: studentID, CourseID: courseID}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return Entry{}, ErrAlreadyListed
		}
		return Entry{}, err
	}
	return entry, nil
}

// Remove deletes a saved course.
func Remove(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&Entry{}, "student_id = ? AND course_id = ?", studentID, courseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotListed
	}
	return nil
}

// Toggle adds the course when absent and removes it otherwise. It returns whether
// the course is listed afterwards.
func Toggle(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (bool, error) {
	err := Remove(ctx, db, studentID, courseID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotListed) {
		return false, err
	}
	if _, err := Add(ctx, db, studentID, courseID); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether the student saved the course.
func Contains(ctx context.Context, db *gorm.DB, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&Entry{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Courses lists the student's saved courses, most recently saved first.
func Courses(ctx context.Context, db *gorm.DB, studentID uuid.UUID, params pagination.Params) ([]course.Course, int64, error) {
	query := db.WithContext(ctx).
		Model(&course.Course{}).
		Joins("JOIN watchlist ON watchlist.course_id = courses.id").
		Where("watchlist.student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []course.Course
	err := query.
		Order("watchlist.created_at DESC, courses.id ASC").
		Scopes(params.Scope).
		Find(&courses).Error
	return courses, total, err
}
