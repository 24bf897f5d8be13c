package course

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Handler processes course catalog requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns published courses, paginated.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	courses, total, err := List(c.Request.Context(), h.db, ListFilters{
		Keyword:       c.Query("keyword"),
		Category:      c.Query("category"),
		PublishedOnly: true,
	}, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// Mine lists the courses owned by the calling instructor, drafts included.
func (h *Handler) Mine(c *gin.Context) {
	viewer := request.Viewer(c)
	params := pagination.Extract(c)

	courses, total, err := List(c.Request.Context(), h.db, ListFilters{InstructorID: &viewer.ID}, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// GetByID returns one course. Drafts are visible to their owner only.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	course, err := Get(c.Request.Context(), h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}
	if !course.Published && !course.ManagedBy(request.Viewer(c)) {
		h.respondError(c, ErrCourseNotFound, "failed to load course")
		return
	}

	response.OK(c, course, "")
}

type courseRequest struct {
	Title            *string      `json:"title"`
	ShortDescription *string      `json:"shortDescription"`
	FullDescription  *string      `json:"fullDescription"`
	Category         *string      `json:"category"`
	Price            *types.Money `json:"price"`
	Published        *bool        `json:"isPublished"`
}

// Create inserts a course owned by the caller.
func (h *Handler) Create(c *gin.Context) {
	viewer := request.Viewer(c)

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	input := CreateInput{
		InstructorID: viewer.ID,
		Price:        req.Price,
		Published:    req.Published,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.ShortDescription != nil {
		input.ShortDescription = *req.ShortDescription
	}
	if req.FullDescription != nil {
		input.FullDescription = *req.FullDescription
	}
	if req.Category != nil {
		input.Category = *req.Category
	}

	course, err := Create(c.Request.Context(), h.db, input)
	if err != nil {
		h.respondError(c, err, "failed to create course")
		return
	}

	response.Created(c, course, "Course created successfully.")
}

// Update modifies a course owned by the caller.
func (h *Handler) Update(c *gin.Context) {
	id, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	existing, err := Get(c.Request.Context(), h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}
	if !existing.ManagedBy(request.Viewer(c)) {
		h.respondError(c, ErrNotOwner, "failed to update course")
		return
	}

	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	course, err := Update(c.Request.Context(), h.db, id, UpdateInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		Category:         req.Category,
		Price:            req.Price,
		Published:        req.Published,
	})
	if err != nil {
		h.respondError(c, err, "failed to update course")
		return
	}

	response.OK(c, course, "Course updated successfully.")
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrTitleRequired):
		status = http.StatusBadRequest
		message = "Course title is required."
	case errors.Is(err, ErrInvalidPrice):
		status = http.StatusBadRequest
		message = "Course price must not be negative."
	case errors.Is(err, ErrNotOwner):
		status = http.StatusForbidden
		message = "You can only manage your own courses."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
