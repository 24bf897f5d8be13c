package watchlist

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// Handler serves watchlist endpoints.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a watchlist handler.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns the caller's saved courses.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	courses, total, err := Courses(c.Request.Context(), h.db, request.Viewer(c).ID, params)
	if err != nil {
		h.respondError(c, err, "failed to load watchlist")
		return
	}

	response.NoStore(c)
	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// Add saves a course.
func (h *Handler) Add(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	entry, err := Add(c.Request.Context(), h.db, request.Viewer(c).ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to add to watchlist")
		return
	}

	response.Created(c, entry, "Added to watchlist.")
}

// Remove deletes a saved course.
func (h *Handler) Remove(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if err := Remove(c.Request.Context(), h.db, request.Viewer(c).ID, courseID); err != nil {
		h.respondError(c, err, "failed to remove from watchlist")
		return
	}

	response.OK(c, nil, "Removed from watchlist.")
}

// Toggle flips membership of a course.
func (h *Handler) Toggle(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	listed, err := Toggle(c.Request.Context(), h.db, request.Viewer(c).ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to update watchlist")
		return
	}

	message := "Removed from watchlist."
	if listed {
		message = "Added to watchlist."
	}
	response.OK(c, gin.H{"inWatchlist": listed}, message)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrAlreadyListed):
		status = http.StatusConflict
		message = "Course is already in your watchlist."
	case errors.Is(err, ErrNotListed):
		status = http.StatusNotFound
		message = "Course is not in your watchlist."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
