package lecture

import "errors"

var (
	ErrLectureNotFound = errors.New("lecture not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrURLRequired     = errors.New("video url or bunny video id is required")
	ErrInvalidDuration = errors.New("duration must not be negative")
)
