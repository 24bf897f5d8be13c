package enrollment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/progress"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// ProgressSummarizer computes a student's completion of a course.
type ProgressSummarizer interface {
	CourseProgress(ctx context.Context, studentID *uuid.UUID, courseID uuid.UUID) (progress.CourseProgress, error)
}

// CourseWithProgress is one row of the "my courses" listing.
type CourseWithProgress struct {
	EnrolledCourse
	Progress progress.CourseProgress `json:"progress"`
}

// Handler serves enrollment endpoints.
type Handler struct {
	registry *Registry
	progress ProgressSummarizer
	logger   *slog.Logger
}

// NewHandler constructs an enrollment handler.
func NewHandler(registry *Registry, summarizer ProgressSummarizer, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, progress: summarizer, logger: logger}
}

// Enroll registers the caller for a course.
func (h *Handler) Enroll(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	record, err := h.registry.Enroll(c.Request.Context(), request.Viewer(c).ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to enroll")
		return
	}

	response.Created(c, record, "Enrolled successfully.")
}

// Status reports whether the caller is enrolled. Guests are never enrolled.
func (h *Handler) Status(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	enrolled := false
	if viewer := request.Viewer(c); viewer != nil {
		enrolled, err = h.registry.IsEnrolled(c.Request.Context(), viewer.ID, courseID)
		if err != nil {
			h.respondError(c, err, "failed to check enrollment")
			return
		}
	}

	response.NoStore(c)
	response.OK(c, gin.H{"courseId": courseID, "isEnrolled": enrolled}, "")
}

// MyCourses lists the caller's enrolled courses with completion figures.
func (h *Handler) MyCourses(c *gin.Context) {
	ctx := c.Request.Context()
	studentID := request.Viewer(c).ID
	params := pagination.Extract(c)

	courses, total, err := h.registry.Courses(ctx, studentID, params)
	if err != nil {
		h.respondError(c, err, "failed to load courses")
		return
	}

	rows := make([]CourseWithProgress, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range courses {
		rows[i].EnrolledCourse = courses[i]
		g.Go(func() error {
			summary, err := h.progress.CourseProgress(gctx, &studentID, courses[i].ID)
			if err != nil {
				return err
			}
			rows[i].Progress = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.respondError(c, err, "failed to compute progress")
		return
	}

	response.NoStore(c)
	response.Success(c, http.StatusOK, rows, "", pagination.MetadataFrom(total, params))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrAlreadyEnrolled):
		status = http.StatusConflict
		message = "You are already enrolled in this course."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
