package progress

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
	"github.com/mo-amir99/coursehub-server-go/pkg/socketio"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Recorder is the write and point-read side of the store.
type Recorder interface {
	Save(ctx context.Context, studentID, videoID uuid.UUID, payload Payload) (VideoProgress, error)
	Get(ctx context.Context, studentID, videoID uuid.UUID) (VideoProgress, error)
	MarkCompleted(ctx context.Context, studentID, videoID uuid.UUID) (VideoProgress, error)
	CompletedVideoIDs(ctx context.Context, studentID, courseID uuid.UUID) ([]uuid.UUID, error)
}

// VideoGate authorizes playback of a video, returning it on success.
type VideoGate interface {
	AuthorizeVideo(ctx context.Context, viewer *types.Viewer, videoID uuid.UUID) (lecture.Video, error)
}

// Notifier pushes realtime events to a user's open sockets.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, payload any)
}

// Handler serves progress endpoints.
type Handler struct {
	store      Recorder
	aggregator *Aggregator
	gate       VideoGate
	notifier   Notifier
	logger     *slog.Logger
}

// NewHandler constructs a progress handler. notifier may be nil.
func NewHandler(store Recorder, aggregator *Aggregator, gate VideoGate, notifier Notifier, logger *slog.Logger) *Handler {
	return &Handler{store: store, aggregator: aggregator, gate: gate, notifier: notifier, logger: logger}
}

type saveRequest struct {
	CurrentTime request.Float `json:"currentTime"`
	Duration    request.Float `json:"duration"`
	IsCompleted request.Bool  `json:"isCompleted"`
}

// Save records a playback report.
func (h *Handler) Save(c *gin.Context) {
	viewer := request.Viewer(c)
	videoID, ok := h.authorizedVideo(c, viewer)
	if !ok {
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid progress payload", err)
		return
	}

	saved, err := h.store.Save(c.Request.Context(), viewer.ID, videoID, Payload{
		CurrentTime: float64(req.CurrentTime),
		Duration:    float64(req.Duration),
		IsCompleted: bool(req.IsCompleted),
	})
	if err != nil {
		h.respondError(c, err, "failed to save progress")
		return
	}

	h.notify(viewer.ID, saved)
	response.NoStore(c)
	response.OK(c, saved, "Progress saved.")
}

// Get returns the caller's watch state for a video.
func (h *Handler) Get(c *gin.Context) {
	viewer := request.Viewer(c)
	videoID, err := request.ParamUUID(c, "videoId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	current, err := h.store.Get(c.Request.Context(), viewer.ID, videoID)
	if err != nil {
		h.respondError(c, err, "failed to load progress")
		return
	}

	response.NoStore(c)
	response.OK(c, current, "")
}

// MarkCompleted flags a video as watched.
func (h *Handler) MarkCompleted(c *gin.Context) {
	viewer := request.Viewer(c)
	videoID, ok := h.authorizedVideo(c, viewer)
	if !ok {
		return
	}

	saved, err := h.store.MarkCompleted(c.Request.Context(), viewer.ID, videoID)
	if err != nil {
		h.respondError(c, err, "failed to mark video completed")
		return
	}

	h.notify(viewer.ID, saved)
	response.NoStore(c)
	response.OK(c, saved, "Video marked as completed.")
}

// CourseProgress returns completion for the caller. Guests get the zero result.
func (h *Handler) CourseProgress(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	result, err := h.aggregator.CourseProgress(c.Request.Context(), request.ViewerID(c), courseID)
	if err != nil {
		h.respondError(c, err, "failed to compute course progress")
		return
	}

	response.NoStore(c)
	response.OK(c, result, "")
}

// CompletedVideos lists completed video ids of a course for the caller.
func (h *Handler) CompletedVideos(c *gin.Context) {
	viewer := request.Viewer(c)
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	ids, err := h.store.CompletedVideoIDs(c.Request.Context(), viewer.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load completed videos")
		return
	}

	response.NoStore(c)
	response.OK(c, gin.H{"videoIds": ids}, "")
}

// NextVideo returns where the caller should resume the course.
func (h *Handler) NextVideo(c *gin.Context) {
	viewer := request.Viewer(c)
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	video, err := h.aggregator.NextVideo(c.Request.Context(), viewer.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to find next video")
		return
	}

	response.NoStore(c)
	response.OK(c, video, "")
}

func (h *Handler) authorizedVideo(c *gin.Context, viewer *types.Viewer) (uuid.UUID, bool) {
	videoID, err := request.ParamUUID(c, "videoId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return uuid.Nil, false
	}

	if _, err := h.gate.AuthorizeVideo(c.Request.Context(), viewer, videoID); err != nil {
		h.respondError(c, err, "failed to authorize video")
		return uuid.Nil, false
	}
	return videoID, true
}

func (h *Handler) notify(userID uuid.UUID, saved VideoProgress) {
	if h.notifier == nil {
		return
	}
	h.notifier.NotifyUser(userID, socketio.EventProgressUpdated, saved)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	if _, ok := apperrors.As(err); ok {
		response.FromError(h.logger, c, err)
		return
	}

	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrInvalidProgress):
		status = http.StatusBadRequest
		message = "currentTime and duration must be non-negative numbers."
	case errors.Is(err, lecture.ErrVideoNotFound):
		status = http.StatusNotFound
		message = "Video not found."
	case errors.Is(err, lecture.ErrLectureNotFound):
		status = http.StatusNotFound
		message = "Lecture not found."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
