package feedback

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
)

// Feedback is one student's review of a course.
type Feedback struct {
	types.BaseModel

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_student_course,priority:1;column:student_id" json:"studentId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_student_course,priority:2;index;column:course_id" json:"courseId"`
	Rating    int       `gorm:"type:smallint;not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
}

// TableName overrides the default table name.
func (Feedback) TableName() string { return "feedback" }

// Review is a feedback row with the reviewer's display name.
type Review struct {
	Feedback
	StudentName string `gorm:"column:student_name" json:"studentName"`
}

// RatingStats is the derived rating of a course.
type RatingStats struct {
	CourseID      uuid.UUID   `json:"courseId"`
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int         `json:"totalReviews"`
	Histogram     map[int]int `json:"histogram"`
}

// validate checks the rating range and the trimmed comment length, returning the
// comment to store.
func validate(rating int, comment string) (string, error) {
	if rating < MinRating || rating > MaxRating {
		return "", ErrInvalidRating
	}
	trimmed := strings.TrimSpace(comment)
	if utf8.RuneCountInString(trimmed) < MinCommentLength {
		return "", ErrCommentTooShort
	}
	return trimmed, nil
}
