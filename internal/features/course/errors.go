package course

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrTitleRequired  = errors.New("course title is required")
	ErrInvalidPrice   = errors.New("course price must not be negative")
	ErrNotOwner       = errors.New("course belongs to another instructor")
)
