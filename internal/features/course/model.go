package course

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Course is a published unit of lectures owned by one instructor.
type Course struct {
	types.BaseModel

	InstructorID     uuid.UUID      `gorm:"type:uuid;not null;index;column:instructor_id" json:"instructorId"`
	Title            string         `gorm:"type:varchar(200);not null" json:"title"`
	ShortDescription string         `gorm:"type:varchar(400);not null;default:''" json:"shortDescription"`
	FullDescription  types.RichText `gorm:"type:text" json:"fullDescription"`
	Category         string         `gorm:"type:varchar(100);not null;default:'';index" json:"category"`
	Price            types.Money    `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Rating           float64        `gorm:"type:numeric(2,1);not null;default:0" json:"rating"`
	TotalReviews     int            `gorm:"not null;default:0;column:total_reviews" json:"totalReviews"`
	TotalEnrollment  int            `gorm:"not null;default:0;column:total_enrollment" json:"totalEnrollment"`
	Published        bool           `gorm:"not null;default:false;column:is_published" json:"isPublished"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// ManagedBy reports whether the viewer may edit the course.
func (c Course) ManagedBy(viewer *types.Viewer) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || (viewer.Role == types.UserTypeInstructor && viewer.ID == c.InstructorID)
}

// ListFilters defines course query filters.
type ListFilters struct {
	Keyword       string
	Category      string
	InstructorID  *uuid.UUID
	PublishedOnly bool
}

// CreateInput carries data for creating a new course.
type CreateInput struct {
	InstructorID     uuid.UUID
	Title            string
	ShortDescription string
	FullDescription  string
	Category         string
	Price            *types.Money
	Published        *bool
}

// UpdateInput captures mutable course fields.
type UpdateInput struct {
	Title            *string
	ShortDescription *string
	FullDescription  *string
	Category         *string
	Price            *types.Money
	Published        *bool
}

// List retrieves paginated courses with filters, newest first.
func List(ctx context.Context, db *gorm.DB, filters ListFilters, params pagination.Params) ([]Course, int64, error) {
	query := db.WithContext(ctx).Model(&Course{})

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(short_description) LIKE ?", keyword, keyword)
	}
	if filters.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(filters.Category))
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("created_at DESC, id ASC").
		Scopes(params.Scope).
		Find(&courses).Error

	return courses, total, err
}

// Get retrieves a course by ID.
func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (Course, error) {
	var course Course
	if err := db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return course, ErrCourseNotFound
		}
		return course, err
	}
	return course, nil
}

// GetPublished retrieves a course visible in the catalog.
func GetPublished(ctx context.Context, db *gorm.DB, id uuid.UUID) (Course, error) {
	course, err := Get(ctx, db, id)
	if err != nil {
		return course, err
	}
	if !course.Published {
		return Course{}, ErrCourseNotFound
	}
	return course, nil
}

// Create inserts a new course.
func Create(ctx context.Context, db *gorm.DB, input CreateInput) (Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Course{}, ErrTitleRequired
	}

	course := Course{
		InstructorID:     input.InstructorID,
		Title:            title,
		ShortDescription: strings.TrimSpace(input.ShortDescription),
		FullDescription:  types.RichText{Content: input.FullDescription},
		Category:         strings.TrimSpace(input.Category),
		Published:        true,
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return Course{}, ErrInvalidPrice
		}
		course.Price = *input.Price
	}
	if input.Published != nil {
		course.Published = *input.Published
	}

	if err := db.WithContext(ctx).Create(&course).Error; err != nil {
		return Course{}, err
	}
	return course, nil
}

// Update modifies an existing course.
func Update(ctx context.Context, db *gorm.DB, id uuid.UUID, input UpdateInput) (Course, error) {
	if _, err := Get(ctx, db, id); err != nil {
		return Course{}, err
	}

	updates := map[string]interface{}{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Course{}, ErrTitleRequired
		}
		updates["title"] = title
	}
	if input.ShortDescription != nil {
		updates["short_description"] = strings.TrimSpace(*input.ShortDescription)
	}
	if input.FullDescription != nil {
		updates["full_description"] = types.RichText{Content: *input.FullDescription}
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return Course{}, ErrInvalidPrice
		}
		updates["price"] = *input.Price
	}
	if input.Published != nil {
		updates["is_published"] = *input.Published
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return Course{}, err
		}
	}

	return Get(ctx, db, id)
}

// WriteRating stores the derived rating fields.
func WriteRating(ctx context.Context, db *gorm.DB, id uuid.UUID, rating float64, totalReviews int) error {
	result := db.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":        rating,
		"total_reviews": totalReviews,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// SetTotalEnrollment stores the derived enrollment count.
func SetTotalEnrollment(ctx context.Context, db *gorm.DB, id uuid.UUID, total int) error {
	return db.WithContext(ctx).Model(&Course{}).Where("id = ?", id).Update("total_enrollment", total).Error
}

// IDs lists every course id. Used by reconciliation jobs.
func IDs(ctx context.Context, db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&Course{}).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}
