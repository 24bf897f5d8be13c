package lecture

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Lecture is an ordered content unit of a course.
type Lecture struct {
	types.BaseModel

	CourseID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_lectures_course_position,priority:1;column:course_id" json:"courseId"`
	Title           string         `gorm:"type:varchar(200);not null" json:"title"`
	Description     types.RichText `gorm:"type:text" json:"description"`
	IsPreview       bool           `gorm:"not null;default:false;column:is_preview" json:"isPreview"`
	DurationMinutes int            `gorm:"not null;default:0;column:duration_minutes" json:"durationMinutes"`
	Position        int            `gorm:"not null;default:0;index:idx_lectures_course_position,priority:2" json:"position"`
}

// TableName overrides the default table name.
func (Lecture) TableName() string { return "lectures" }

// Video is a playable item of a lecture. The first one by position is the primary video.
type Video struct {
	types.BaseModel

	LectureID    uuid.UUID `gorm:"type:uuid;not null;index:idx_videos_lecture_position,priority:1;column:lecture_id" json:"lectureId"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	URL          string    `gorm:"type:text;not null;default:''" json:"url"`
	BunnyVideoID *string   `gorm:"type:varchar(255);column:bunny_video_id" json:"bunnyVideoId,omitempty"`
	Duration     float64   `gorm:"not null;default:0" json:"duration"` // seconds
	Position     int       `gorm:"not null;default:0;index:idx_videos_lecture_position,priority:2" json:"position"`
}

// TableName overrides the default table name.
func (Video) TableName() string { return "videos" }

// CreateLectureInput carries data for a new lecture.
type CreateLectureInput struct {
	CourseID        uuid.UUID
	Title           string
	Description     string
	IsPreview       bool
	DurationMinutes int
}

// UpdateLectureInput captures mutable lecture fields.
type UpdateLectureInput struct {
	Title           *string
	Description     *string
	IsPreview       *bool
	DurationMinutes *int
	Position        *int
}

// AddVideoInput carries data for a new video.
type AddVideoInput struct {
	LectureID    uuid.UUID
	Title        string
	URL          string
	BunnyVideoID *string
	Duration     float64
}

func (in AddVideoInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.URL) == "" && (in.BunnyVideoID == nil || strings.TrimSpace(*in.BunnyVideoID) == "") {
		return ErrURLRequired
	}
	if in.Duration < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// uuidArray binds a uuid slice as a postgres array parameter.
func uuidArray(ids []uuid.UUID) interface{} {
	values := make(pq.StringArray, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	return values
}
