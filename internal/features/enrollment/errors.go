package enrollment

import "errors"

// ErrAlreadyEnrolled is returned when the student already holds an enrollment.
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")
