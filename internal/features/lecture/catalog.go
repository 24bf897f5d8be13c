package lecture

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

const (
	lectureOrder = "position ASC, created_at ASC, id ASC"
	videoOrder   = "position ASC, created_at ASC, id ASC"
)

// Catalog reads and writes the lecture and video tables.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// Lectures returns the course lectures in display order.
func (c *Catalog) Lectures(ctx context.Context, courseID uuid.UUID) ([]Lecture, error) {
	var lectures []Lecture
	err := c.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(lectureOrder).
		Find(&lectures).Error
	return lectures, err
}

// Lecture retrieves one lecture.
func (c *Catalog) Lecture(ctx context.Context, id uuid.UUID) (Lecture, error) {
	var lecture Lecture
	if err := c.db.WithContext(ctx).First(&lecture, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lecture, ErrLectureNotFound
		}
		return lecture, err
	}
	return lecture, nil
}

// Videos returns the lecture videos in display order.
func (c *Catalog) Videos(ctx context.Context, lectureID uuid.UUID) ([]Video, error) {
	var videos []Video
	err := c.db.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order(videoOrder).
		Find(&videos).Error
	return videos, err
}

// VideosByLecture loads the videos of several lectures in one query.
func (c *Catalog) VideosByLecture(ctx context.Context, lectureIDs []uuid.UUID) (map[uuid.UUID][]Video, error) {
	grouped := make(map[uuid.UUID][]Video, len(lectureIDs))
	if len(lectureIDs) == 0 {
		return grouped, nil
	}

	var videos []Video
	err := c.db.WithContext(ctx).
		Where("lecture_id = ANY(?::uuid[])", uuidArray(lectureIDs)).
		Order(videoOrder).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}

	for _, v := range videos {
		grouped[v.LectureID] = append(grouped[v.LectureID], v)
	}
	return grouped, nil
}

// Video retrieves one video.
func (c *Catalog) Video(ctx context.Context, id uuid.UUID) (Video, error) {
	var video Video
	if err := c.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return video, ErrVideoNotFound
		}
		return video, err
	}
	return video, nil
}

// CourseVideos returns every video of a course in lecture then video order.
func (c *Catalog) CourseVideos(ctx context.Context, courseID uuid.UUID) ([]Video, error) {
	var videos []Video
	err := c.db.WithContext(ctx).
		Model(&Video{}).
		Joins("JOIN lectures ON lectures.id = videos.lecture_id").
		Where("lectures.course_id = ?", courseID).
		Order("lectures.position ASC, lectures.created_at ASC, lectures.id ASC").
		Order("videos.position ASC, videos.created_at ASC, videos.id ASC").
		Find(&videos).Error
	return videos, err
}

// Course returns the course a lecture belongs to, drafts included.
func (c *Catalog) Course(ctx context.Context, courseID uuid.UUID) (course.Course, error) {
	return course.Get(ctx, c.db, courseID)
}

// Neighbors returns the lectures around lecture in course order.
func (c *Catalog) Neighbors(ctx context.Context, lecture Lecture) (prev, next *Lecture, err error) {
	lectures, err := c.Lectures(ctx, lecture.CourseID)
	if err != nil {
		return nil, nil, err
	}
	for i := range lectures {
		if lectures[i].ID != lecture.ID {
			continue
		}
		if i > 0 {
			prev = &lectures[i-1]
		}
		if i+1 < len(lectures) {
			next = &lectures[i+1]
		}
		break
	}
	return prev, next, nil
}

// CreateLecture appends a lecture to the end of the course.
func (c *Catalog) CreateLecture(ctx context.Context, input CreateLectureInput) (Lecture, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Lecture{}, ErrTitleRequired
	}
	if input.DurationMinutes < 0 {
		return Lecture{}, ErrInvalidDuration
	}

	lecture := Lecture{
		CourseID:        input.CourseID,
		Title:           title,
		Description:     types.RichText{Content: input.Description},
		IsPreview:       input.IsPreview,
		DurationMinutes: input.DurationMinutes,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&Lecture{}).
			Where("course_id = ?", input.CourseID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		lecture.Position = next
		return tx.Create(&lecture).Error
	})
	if err != nil {
		return Lecture{}, err
	}
	return lecture, nil
}

// UpdateLecture modifies a lecture.
func (c *Catalog) UpdateLecture(ctx context.Context, id uuid.UUID, input UpdateLectureInput) (Lecture, error) {
	if _, err := c.Lecture(ctx, id); err != nil {
		return Lecture{}, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Lecture{}, ErrTitleRequired
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = types.RichText{Content: *input.Description}
	}
	if input.IsPreview != nil {
		updates["is_preview"] = *input.IsPreview
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes < 0 {
			return Lecture{}, ErrInvalidDuration
		}
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}

	if len(updates) > 0 {
		if err := c.db.WithContext(ctx).Model(&Lecture{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return Lecture{}, err
		}
	}
	return c.Lecture(ctx, id)
}

// DeleteLecture removes a lecture with its videos. Progress rows follow through the
// video foreign key.
func (c *Catalog) DeleteLecture(ctx context.Context, id uuid.UUID) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lecture_id = ?", id).Delete(&Video{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Lecture{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLectureNotFound
		}
		return nil
	})
}

// AddVideo appends a video to a lecture.
func (c *Catalog) AddVideo(ctx context.Context, input AddVideoInput) (Video, error) {
	if err := input.validate(); err != nil {
		return Video{}, err
	}

	video := Video{
		LectureID:    input.LectureID,
		Title:        strings.TrimSpace(input.Title),
		URL:          strings.TrimSpace(input.URL),
		BunnyVideoID: input.BunnyVideoID,
		Duration:     input.Duration,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&Video{}).
			Where("lecture_id = ?", input.LectureID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		video.Position = next
		return tx.Create(&video).Error
	})
	if err != nil {
		return Video{}, err
	}
	return video, nil
}

// DeleteVideo removes a video.
func (c *Catalog) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	result := c.db.WithContext(ctx).Delete(&Video{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}
