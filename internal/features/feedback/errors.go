package feedback

import "errors"

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCommentTooShort  = errors.New("comment must be at least 10 characters")
	ErrAlreadyReviewed  = errors.New("course already reviewed")
	ErrNotEnrolled      = errors.New("only enrolled students can review a course")
	ErrFeedbackNotFound = errors.New("feedback not found")
)
