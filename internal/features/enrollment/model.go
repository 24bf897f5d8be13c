package enrollment

import (
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Enrollment records that a student registered for a course.
type Enrollment struct {
	types.BaseModel

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course,priority:1;column:student_id" json:"studentId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course,priority:2;index;column:course_id" json:"courseId"`
}

// TableName overrides the default table name.
func (Enrollment) TableName() string { return "enrollments" }

// EnrolledCourse is a course row annotated with the enrollment date.
type EnrolledCourse struct {
	course.Course
	EnrolledAt time.Time `gorm:"column:enrolled_at" json:"enrolledAt"`
}
