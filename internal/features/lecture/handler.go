package lecture

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/pkg/bunny"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// VideoMetadata looks up hosted video details.
type VideoMetadata interface {
	MetadataEnabled() bool
	GetVideo(ctx context.Context, videoID string) (*bunny.Video, error)
}

// Handler serves instructor writes on lectures and videos.
type Handler struct {
	db      *gorm.DB
	catalog *Catalog
	stream  VideoMetadata
	logger  *slog.Logger
}

// NewHandler constructs a lecture handler.
func NewHandler(db *gorm.DB, catalog *Catalog, stream VideoMetadata, logger *slog.Logger) *Handler {
	return &Handler{db: db, catalog: catalog, stream: stream, logger: logger}
}

// Create appends a lecture to a course owned by the caller.
func (h *Handler) Create(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}
	if err := h.authorizeCourse(c, courseID); err != nil {
		h.respondError(c, err, "failed to create lecture")
		return
	}

	var req struct {
		Title           string `json:"title" binding:"required"`
		Description     string `json:"description"`
		IsPreview       bool   `json:"isPreview"`
		DurationMinutes int    `json:"durationMinutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture payload", err)
		return
	}

	lecture, err := h.catalog.CreateLecture(c.Request.Context(), CreateLectureInput{
		CourseID:        courseID,
		Title:           req.Title,
		Description:     req.Description,
		IsPreview:       req.IsPreview,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.respondError(c, err, "failed to create lecture")
		return
	}

	response.Created(c, lecture, "Lecture created successfully.")
}

// Update modifies a lecture.
func (h *Handler) Update(c *gin.Context) {
	lecture, ok := h.ownedLecture(c)
	if !ok {
		return
	}

	var req struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		IsPreview       *bool   `json:"isPreview"`
		DurationMinutes *int    `json:"durationMinutes"`
		Position        *int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture payload", err)
		return
	}

	updated, err := h.catalog.UpdateLecture(c.Request.Context(), lecture.ID, UpdateLectureInput{
		Title:           req.Title,
		Description:     req.Description,
		IsPreview:       req.IsPreview,
		DurationMinutes: req.DurationMinutes,
		Position:        req.Position,
	})
	if err != nil {
		h.respondError(c, err, "failed to update lecture")
		return
	}

	response.OK(c, updated, "Lecture updated successfully.")
}

// Delete removes a lecture with its videos.
func (h *Handler) Delete(c *gin.Context) {
	lecture, ok := h.ownedLecture(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteLecture(c.Request.Context(), lecture.ID); err != nil {
		h.respondError(c, err, "failed to delete lecture")
		return
	}

	response.OK(c, nil, "Lecture deleted successfully.")
}

// AddVideo appends a video. When only a Bunny id is given the duration is read from
// the Stream API.
func (h *Handler) AddVideo(c *gin.Context) {
	lecture, ok := h.ownedLecture(c)
	if !ok {
		return
	}

	var req struct {
		Title        string         `json:"title" binding:"required"`
		URL          string         `json:"url"`
		BunnyVideoID *string        `json:"bunnyVideoId"`
		Duration     *request.Float `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video payload", err)
		return
	}

	input := AddVideoInput{
		LectureID:    lecture.ID,
		Title:        req.Title,
		URL:          req.URL,
		BunnyVideoID: req.BunnyVideoID,
	}
	if req.Duration != nil {
		input.Duration = float64(*req.Duration)
	} else if req.BunnyVideoID != nil {
		input.Duration = h.bunnyDuration(c.Request.Context(), *req.BunnyVideoID)
	}

	video, err := h.catalog.AddVideo(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "failed to add video")
		return
	}

	response.Created(c, video, "Video added successfully.")
}

// DeleteVideo removes a video.
func (h *Handler) DeleteVideo(c *gin.Context) {
	videoID, err := request.ParamUUID(c, "videoId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	ctx := c.Request.Context()
	video, err := h.catalog.Video(ctx, videoID)
	if err != nil {
		h.respondError(c, err, "failed to load video")
		return
	}
	lecture, err := h.catalog.Lecture(ctx, video.LectureID)
	if err != nil {
		h.respondError(c, err, "failed to load lecture")
		return
	}
	if err := h.authorizeCourse(c, lecture.CourseID); err != nil {
		h.respondError(c, err, "failed to delete video")
		return
	}

	if err := h.catalog.DeleteVideo(ctx, videoID); err != nil {
		h.respondError(c, err, "failed to delete video")
		return
	}

	response.OK(c, nil, "Video deleted successfully.")
}

func (h *Handler) bunnyDuration(ctx context.Context, bunnyID string) float64 {
	if h.stream == nil || !h.stream.MetadataEnabled() {
		return 0
	}
	meta, err := h.stream.GetVideo(ctx, bunnyID)
	if err != nil {
		h.logger.Warn("bunny metadata lookup failed",
			slog.String("bunnyVideoId", bunnyID),
			slog.String("error", err.Error()))
		return 0
	}
	return meta.Length
}

func (h *Handler) ownedLecture(c *gin.Context) (Lecture, bool) {
	lectureID, err := request.ParamUUID(c, "lectureId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return Lecture{}, false
	}

	lecture, err := h.catalog.Lecture(c.Request.Context(), lectureID)
	if err != nil {
		h.respondError(c, err, "failed to load lecture")
		return Lecture{}, false
	}
	if err := h.authorizeCourse(c, lecture.CourseID); err != nil {
		h.respondError(c, err, "failed to load lecture")
		return Lecture{}, false
	}
	return lecture, true
}

func (h *Handler) authorizeCourse(c *gin.Context, courseID uuid.UUID) error {
	owner, err := course.Get(c.Request.Context(), h.db, courseID)
	if err != nil {
		return err
	}
	if !owner.ManagedBy(request.Viewer(c)) {
		return course.ErrNotOwner
	}
	return nil
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrLectureNotFound):
		status = http.StatusNotFound
		message = "Lecture not found."
	case errors.Is(err, ErrVideoNotFound):
		status = http.StatusNotFound
		message = "Video not found."
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, course.ErrNotOwner):
		status = http.StatusForbidden
		message = "You can only manage your own courses."
	case errors.Is(err, ErrTitleRequired):
		status = http.StatusBadRequest
		message = "Title is required."
	case errors.Is(err, ErrURLRequired):
		status = http.StatusBadRequest
		message = "A video url or Bunny video id is required."
	case errors.Is(err, ErrInvalidDuration):
		status = http.StatusBadRequest
		message = "Duration must not be negative."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
