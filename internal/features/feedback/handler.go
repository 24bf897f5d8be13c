package feedback

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// Handler serves review endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a feedback handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Add stores the caller's review of a course.
func (h *Handler) Add(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid feedback payload", err)
		return
	}

	fb, err := h.service.Add(c.Request.Context(), request.Viewer(c).ID, courseID, req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err, "failed to submit feedback")
		return
	}

	response.Created(c, fb, "Thank you for your feedback.")
}

// Update edits the caller's review.
func (h *Handler) Update(c *gin.Context) {
	feedbackID, err := request.ParamUUID(c, "feedbackId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid feedback id", err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid feedback payload", err)
		return
	}

	fb, err := h.service.Update(c.Request.Context(), request.Viewer(c).ID, feedbackID, req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err, "failed to update feedback")
		return
	}

	response.OK(c, fb, "Feedback updated.")
}

// Delete removes a review.
func (h *Handler) Delete(c *gin.Context) {
	feedbackID, err := request.ParamUUID(c, "feedbackId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid feedback id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), request.Viewer(c), feedbackID); err != nil {
		h.respondError(c, err, "failed to delete feedback")
		return
	}

	response.OK(c, nil, "Feedback deleted.")
}

// Stats returns the rating summary of a course.
func (h *Handler) Stats(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), courseID)
	if err != nil {
		h.respondError(c, err, "failed to load rating stats")
		return
	}

	response.OK(c, stats, "")
}

// List pages through a course's reviews.
func (h *Handler) List(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	params := pagination.Extract(c)
	reviews, total, err := h.service.ListForCourse(c.Request.Context(), courseID, params)
	if err != nil {
		h.respondError(c, err, "failed to list feedback")
		return
	}

	response.Success(c, http.StatusOK, reviews, "", pagination.MetadataFrom(total, params))
}

// Mine returns the caller's review of a course.
func (h *Handler) Mine(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	fb, err := h.service.Mine(c.Request.Context(), request.Viewer(c).ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load feedback")
		return
	}

	response.NoStore(c)
	response.OK(c, fb, "")
}

// ListMine pages through every review the caller wrote.
func (h *Handler) ListMine(c *gin.Context) {
	params := pagination.Extract(c)
	items, total, err := h.service.ListForStudent(c.Request.Context(), request.Viewer(c).ID, params)
	if err != nil {
		h.respondError(c, err, "failed to list feedback")
		return
	}

	response.NoStore(c)
	response.Success(c, http.StatusOK, items, "", pagination.MetadataFrom(total, params))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrInvalidRating):
		status = http.StatusBadRequest
		message = "Rating must be between 1 and 5."
	case errors.Is(err, ErrCommentTooShort):
		status = http.StatusBadRequest
		message = "Comment must be at least 10 characters."
	case errors.Is(err, ErrAlreadyReviewed):
		status = http.StatusConflict
		message = "You have already reviewed this course."
	case errors.Is(err, ErrNotEnrolled):
		status = http.StatusForbidden
		message = "Only enrolled students can review this course."
	case errors.Is(err, ErrFeedbackNotFound):
		status = http.StatusNotFound
		message = "Feedback not found."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
