package progress

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// VideoProgress is the watch state of one student on one video.
type VideoProgress struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_video_progress_student_video,priority:1;column:student_id" json:"studentId"`
	VideoID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_video_progress_student_video,priority:2;index;column:video_id" json:"videoId"`
	CurrentTime   float64    `gorm:"not null;default:0;column:current_time" json:"currentTime"`
	Duration      float64    `gorm:"not null;default:0" json:"duration"`
	IsCompleted   bool       `gorm:"not null;default:false;column:is_completed" json:"isCompleted"`
	LastWatchedAt *time.Time `gorm:"column:last_watched_at" json:"lastWatchedAt"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}

// TableName overrides the default table name.
func (VideoProgress) TableName() string { return "video_progress" }

// Payload is one playback report.
type Payload struct {
	CurrentTime   float64
	Duration      float64
	IsCompleted   bool
	LastWatchedAt *time.Time
}

func (p Payload) validate() error {
	for _, v := range []float64{p.CurrentTime, p.Duration} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidProgress
		}
	}
	return nil
}

// LectureProgress is the derived completion of one lecture.
type LectureProgress struct {
	LectureID          uuid.UUID `json:"lectureId"`
	Title              string    `json:"title"`
	TotalVideos        int       `json:"totalVideos"`
	CompletedVideos    int       `json:"completedVideos"`
	ProgressPercentage int       `json:"progressPercentage"`
	IsComplete         bool      `json:"isComplete"`
}

// CourseProgress is the derived completion of a course. It is never stored.
type CourseProgress struct {
	CourseID           uuid.UUID         `json:"courseId"`
	TotalLectures      int               `json:"totalLectures"`
	CompletedLectures  int               `json:"completedLectures"`
	ProgressPercentage int               `json:"progressPercentage"`
	Lectures           []LectureProgress `json:"lectures,omitempty"`
}

// Percent is round-half-up(100*done/total), and 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return (200*done + total) / (2 * total)
}
