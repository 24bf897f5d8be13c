package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/database"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
)

// Repository is the storage the service needs.
type Repository interface {
	Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Create(ctx context.Context, fb *Feedback) error
	Get(ctx context.Context, id uuid.UUID) (Feedback, error)
	Find(ctx context.Context, studentID, courseID uuid.UUID) (Feedback, error)
	Update(ctx context.Context, id uuid.UUID, rating int, comment string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RatingCounts returns the number of reviews per star value.
	RatingCounts(ctx context.Context, courseID uuid.UUID) (map[int]int, error)
	WriteCourseRating(ctx context.Context, courseID uuid.UUID, average float64, total int) error
	ListForCourse(ctx context.Context, courseID uuid.UUID, params pagination.Params) ([]Review, int64, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID, params pagination.Params) ([]Feedback, int64, error)
}

// GormRepository stores feedback in postgres.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Feedback{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, fb *Feedback) error {
	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *GormRepository) Get(ctx context.Context, id uuid.UUID) (Feedback, error) {
	var fb Feedback
	if err := r.db.WithContext(ctx).First(&fb, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fb, ErrFeedbackNotFound
		}
		return fb, err
	}
	return fb, nil
}

func (r *GormRepository) Find(ctx context.Context, studentID, courseID uuid.UUID) (Feedback, error) {
	var fb Feedback
	err := r.db.WithContext(ctx).First(&fb, "student_id = ? AND course_id = ?", studentID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fb, ErrFeedbackNotFound
	}
	return fb, err
}

func (r *GormRepository) Update(ctx context.Context, id uuid.UUID, rating int, comment string) error {
	result := r.db.WithContext(ctx).Model(&Feedback{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Feedback{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *GormRepository) RatingCounts(ctx context.Context, courseID uuid.UUID) (map[int]int, error) {
	var rows []struct {
		Rating int
		Count  int
	}
	err := r.db.WithContext(ctx).Model(&Feedback{}).
		Select("rating, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

func (r *GormRepository) WriteCourseRating(ctx context.Context, courseID uuid.UUID, average float64, total int) error {
	return course.WriteRating(ctx, r.db, courseID, average, total)
}

func (r *GormRepository) ListForCourse(ctx context.Context, courseID uuid.UUID, params pagination.Params) ([]Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&Feedback{}).Where("feedback.course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []Review
	err := query.
		Select("feedback.*, COALESCE(accounts.full_name, '') AS student_name").
		Joins("LEFT JOIN accounts ON accounts.id = feedback.student_id").
		Order("feedback.created_at DESC, feedback.id ASC").
		Scopes(params.Scope).
		Scan(&reviews).Error
	return reviews, total, err
}

func (r *GormRepository) ListForStudent(ctx context.Context, studentID uuid.UUID, params pagination.Params) ([]Feedback, int64, error) {
	query := r.db.WithContext(ctx).Model(&Feedback{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Feedback
	err := query.Order("created_at DESC, id ASC").Scopes(params.Scope).Find(&items).Error
	return items, total, err
}
