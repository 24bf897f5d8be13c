// Package player serves the viewer facing course outline and lecture pages.
package player

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/features/access"
	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/internal/features/progress"
	"github.com/mo-amir99/coursehub-server-go/pkg/bunny"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Signer produces playback URLs for hosted videos.
type Signer interface {
	SignedPlaybackURL(videoID string) (string, error)
}

// Handler renders outlines and lecture views.
type Handler struct {
	db          *gorm.DB
	catalog     *lecture.Catalog
	aggregator  *progress.Aggregator
	reader      progress.Reader
	enrollments access.Enrollments
	signer      Signer
	logger      *slog.Logger
}

// NewHandler constructs a player handler. signer may be nil.
func NewHandler(db *gorm.DB, catalog *lecture.Catalog, aggregator *progress.Aggregator, reader progress.Reader, enrollments access.Enrollments, signer Signer, logger *slog.Logger) *Handler {
	return &Handler{
		db:          db,
		catalog:     catalog,
		aggregator:  aggregator,
		reader:      reader,
		enrollments: enrollments,
		signer:      signer,
		logger:      logger,
	}
}

type outlineLecture struct {
	lecture.Lecture
	VideoCount int                       `json:"videoCount"`
	Locked     bool                      `json:"locked"`
	Progress   *progress.LectureProgress `json:"progress,omitempty"`
}

type outline struct {
	CourseID uuid.UUID               `json:"courseId"`
	Title    string                  `json:"title"`
	Enrolled bool                    `json:"enrolled"`
	Progress progress.CourseProgress `json:"progress"`
	Lectures []outlineLecture        `json:"lectures"`
}

// Outline lists a course's lectures with lock state and the viewer's progress.
func (h *Handler) Outline(c *gin.Context) {
	courseID, err := request.ParamUUID(c, "courseId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	ctx := c.Request.Context()
	viewer := request.Viewer(c)

	crs, err := course.Get(ctx, h.db, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}
	if !crs.Published && !crs.ManagedBy(viewer) {
		h.respondError(c, course.ErrCourseNotFound, "failed to load course")
		return
	}

	enrolled, err := h.unlocked(ctx, viewer, crs)
	if err != nil {
		h.respondError(c, err, "failed to check enrollment")
		return
	}

	lectures, err := h.catalog.Lectures(ctx, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load lectures")
		return
	}
	ids := make([]uuid.UUID, len(lectures))
	for i, l := range lectures {
		ids[i] = l.ID
	}
	videos, err := h.catalog.VideosByLecture(ctx, ids)
	if err != nil {
		h.respondError(c, err, "failed to load videos")
		return
	}

	summary, err := h.aggregator.CourseProgress(ctx, viewer.IDPtr(), courseID)
	if err != nil {
		h.respondError(c, err, "failed to compute progress")
		return
	}
	perLecture := make(map[uuid.UUID]progress.LectureProgress, len(summary.Lectures))
	for _, lp := range summary.Lectures {
		perLecture[lp.LectureID] = lp
	}

	out := outline{
		CourseID: crs.ID,
		Title:    crs.Title,
		Enrolled: enrolled,
		Progress: summary,
		Lectures: make([]outlineLecture, len(lectures)),
	}
	for i, l := range lectures {
		entry := outlineLecture{
			Lecture:    l,
			VideoCount: len(videos[l.ID]),
			Locked:     !access.Decide(l.IsPreview, viewer.IDPtr(), enrolled).Allowed(),
		}
		if lp, ok := perLecture[l.ID]; ok {
			entry.Progress = &lp
		}
		out.Lectures[i] = entry
	}
	out.Progress.Lectures = nil

	response.NoStore(c)
	response.OK(c, out, "")
}

type playableVideo struct {
	lecture.Video
	PlaybackURL string                  `json:"playbackUrl"`
	Progress    *progress.VideoProgress `json:"progress,omitempty"`
}

type lectureView struct {
	Lecture  lecture.Lecture           `json:"lecture"`
	Videos   []playableVideo           `json:"videos"`
	Progress *progress.LectureProgress `json:"progress,omitempty"`
	Previous *uuid.UUID                `json:"previousLectureId"`
	Next     *uuid.UUID                `json:"nextLectureId"`
}

// Lecture renders a lecture the gate already let through.
func (h *Handler) Lecture(c *gin.Context) {
	l, ok := access.LectureFrom(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "lecture not resolved", errors.New("player: access middleware missing"))
		return
	}

	ctx := c.Request.Context()
	viewer := request.Viewer(c)

	videos, err := h.catalog.Videos(ctx, l.ID)
	if err != nil {
		h.respondError(c, err, "failed to load videos")
		return
	}

	view := lectureView{Lecture: l, Videos: make([]playableVideo, len(videos))}

	var rows map[uuid.UUID]progress.VideoProgress
	if viewer != nil && len(videos) > 0 {
		ids := make([]uuid.UUID, len(videos))
		for i, v := range videos {
			ids[i] = v.ID
		}
		rows, err = h.reader.ListForVideos(ctx, viewer.ID, ids)
		if err != nil {
			h.logger.Warn("viewer progress unavailable",
				slog.String("lectureId", l.ID.String()),
				slog.String("error", err.Error()))
			rows = nil
		}

		lp, err := h.aggregator.LectureProgress(ctx, viewer.ID, l.ID)
		if err == nil {
			view.Progress = &lp
		}
	}

	for i, v := range videos {
		entry := playableVideo{Video: v, PlaybackURL: h.playbackURL(v)}
		if row, ok := rows[v.ID]; ok {
			entry.Progress = &row
		} else if viewer != nil {
			entry.Progress = &progress.VideoProgress{StudentID: viewer.ID, VideoID: v.ID}
		}
		view.Videos[i] = entry
	}

	prev, next, err := h.catalog.Neighbors(ctx, l)
	if err != nil {
		h.respondError(c, err, "failed to load neighbouring lectures")
		return
	}
	if prev != nil {
		view.Previous = &prev.ID
	}
	if next != nil {
		view.Next = &next.ID
	}

	response.NoStore(c)
	response.OK(c, view, "")
}

func (h *Handler) playbackURL(v lecture.Video) string {
	if v.BunnyVideoID == nil || h.signer == nil {
		return v.URL
	}
	signed, err := h.signer.SignedPlaybackURL(*v.BunnyVideoID)
	if err != nil {
		if !errors.Is(err, bunny.ErrNotConfigured) {
			h.logger.Warn("signing playback url failed",
				slog.String("videoId", v.ID.String()),
				slog.String("error", err.Error()))
		}
		return v.URL
	}
	return signed
}

// unlocked reports whether non-preview lectures are open to the viewer.
func (h *Handler) unlocked(ctx context.Context, viewer *types.Viewer, crs course.Course) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	if crs.ManagedBy(viewer) {
		return true, nil
	}
	return h.enrollments.IsEnrolled(ctx, viewer.ID, crs.ID)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, lecture.ErrLectureNotFound):
		status = http.StatusNotFound
		message = "Lecture not found."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
