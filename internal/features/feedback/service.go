package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mo-amir99/coursehub-server-go/pkg/metrics"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Enrollments answers whether a student is enrolled in a course.
type Enrollments interface {
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

// Service validates reviews and keeps the course rating derived from them. Every
// write is followed by a full recompute from the feedback rows.
type Service struct {
	repo        Repository
	enrollments Enrollments
	logger      *slog.Logger
}

// NewService wires a feedback service.
func NewService(repo Repository, enrollments Enrollments, logger *slog.Logger) *Service {
	return &Service{repo: repo, enrollments: enrollments, logger: logger}
}

// Add stores a first review of a course by an enrolled student.
func (s *Service) Add(ctx context.Context, studentID, courseID uuid.UUID, rating int, comment string) (Feedback, error) {
	trimmed, err := validate(rating, comment)
	if err != nil {
		return Feedback{}, err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return Feedback{}, err
	}
	if !enrolled {
		return Feedback{}, ErrNotEnrolled
	}

	exists, err := s.repo.Exists(ctx, studentID, courseID)
	if err != nil {
		return Feedback{}, err
	}
	if exists {
		return Feedback{}, ErrAlreadyReviewed
	}

	fb := Feedback{StudentID: studentID, CourseID: courseID, Rating: rating, Comment: trimmed}
	if err := s.repo.Create(ctx, &fb); err != nil {
		return Feedback{}, err
	}

	if _, err := s.Recompute(ctx, courseID, "add"); err != nil {
		return fb, err
	}
	return fb, nil
}

// Update edits the caller's own review.
func (s *Service) Update(ctx context.Context, studentID, feedbackID uuid.UUID, rating int, comment string) (Feedback, error) {
	trimmed, err := validate(rating, comment)
	if err != nil {
		return Feedback{}, err
	}

	fb, err := s.repo.Get(ctx, feedbackID)
	if err != nil {
		return Feedback{}, err
	}
	if fb.StudentID != studentID {
		return Feedback{}, ErrFeedbackNotFound
	}

	if err := s.repo.Update(ctx, feedbackID, rating, trimmed); err != nil {
		return Feedback{}, err
	}
	fb.Rating, fb.Comment = rating, trimmed

	if _, err := s.Recompute(ctx, fb.CourseID, "update"); err != nil {
		return fb, err
	}
	return fb, nil
}

// Delete removes a review. Admins may remove any review, students only their own.
func (s *Service) Delete(ctx context.Context, viewer *types.Viewer, feedbackID uuid.UUID) error {
	fb, err := s.repo.Get(ctx, feedbackID)
	if err != nil {
		return err
	}
	if viewer == nil || (fb.StudentID != viewer.ID && !viewer.IsAdmin()) {
		return ErrFeedbackNotFound
	}

	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		return err
	}

	_, err = s.Recompute(ctx, fb.CourseID, "delete")
	return err
}

// Stats computes average, total and star histogram from the feedback rows.
func (s *Service) Stats(ctx context.Context, courseID uuid.UUID) (RatingStats, error) {
	counts, err := s.repo.RatingCounts(ctx, courseID)
	if err != nil {
		return RatingStats{}, err
	}
	return summarize(courseID, counts), nil
}

// Recompute derives the course rating from scratch and writes it to the course.
// A failure here leaves the primary write in place; the reconcile job repairs it.
func (s *Service) Recompute(ctx context.Context, courseID uuid.UUID, trigger string) (RatingStats, error) {
	stats, err := s.Stats(ctx, courseID)
	if err == nil {
		err = s.repo.WriteCourseRating(ctx, courseID, stats.AverageRating, stats.TotalReviews)
	}
	metrics.IncRatingRecompute(trigger, err)
	if err != nil {
		s.logger.Error("course rating recompute failed",
			slog.String("courseId", courseID.String()),
			slog.String("trigger", trigger),
			slog.String("error", err.Error()))
		return RatingStats{}, fmt.Errorf("recompute course rating: %w", err)
	}
	return stats, nil
}

// Mine returns the caller's review of a course.
func (s *Service) Mine(ctx context.Context, studentID, courseID uuid.UUID) (Feedback, error) {
	return s.repo.Find(ctx, studentID, courseID)
}

// ListForCourse pages through a course's reviews, newest first.
func (s *Service) ListForCourse(ctx context.Context, courseID uuid.UUID, params pagination.Params) ([]Review, int64, error) {
	return s.repo.ListForCourse(ctx, courseID, params)
}

// ListForStudent pages through the reviews a student wrote.
func (s *Service) ListForStudent(ctx context.Context, studentID uuid.UUID, params pagination.Params) ([]Feedback, int64, error) {
	return s.repo.ListForStudent(ctx, studentID, params)
}

// summarize averages the star counts, rounding half-up to one decimal.
func summarize(courseID uuid.UUID, counts map[int]int) RatingStats {
	stats := RatingStats{CourseID: courseID, Histogram: make(map[int]int, MaxRating)}

	var sum int64
	for star := MinRating; star <= MaxRating; star++ {
		n := counts[star]
		stats.Histogram[star] = n
		stats.TotalReviews += n
		sum += int64(star * n)
	}

	if stats.TotalReviews > 0 {
		avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(stats.TotalReviews))).Round(1)
		stats.AverageRating = avg.InexactFloat64()
	}
	return stats
}
