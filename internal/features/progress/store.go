package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/coursehub-server-go/pkg/metrics"
)

// Store persists VideoProgress rows.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

var conflictTarget = []clause.Column{{Name: "student_id"}, {Name: "video_id"}}

// Save upserts the watch state for (studentID, videoID). Last write wins.
func (s *Store) Save(ctx context.Context, studentID, videoID uuid.UUID, payload Payload) (VideoProgress, error) {
	if err := payload.validate(); err != nil {
		return VideoProgress{}, err
	}

	watched := s.now().UTC()
	if payload.LastWatchedAt != nil {
		watched = payload.LastWatchedAt.UTC()
	}

	row := VideoProgress{
		StudentID:     studentID,
		VideoID:       videoID,
		CurrentTime:   payload.CurrentTime,
		Duration:      payload.Duration,
		IsCompleted:   payload.IsCompleted,
		LastWatchedAt: &watched,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   conflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{"current_time", "duration", "is_completed", "last_watched_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return VideoProgress{}, err
	}

	metrics.IncProgressSave("save")
	return s.Get(ctx, studentID, videoID)
}

// MarkCompleted flags the video as completed, creating the row with zeroed times
// when the student never reported playback.
func (s *Store) MarkCompleted(ctx context.Context, studentID, videoID uuid.UUID) (VideoProgress, error) {
	now := s.now().UTC()
	row := VideoProgress{
		StudentID:     studentID,
		VideoID:       videoID,
		IsCompleted:   true,
		LastWatchedAt: &now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   conflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "last_watched_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return VideoProgress{}, err
	}

	metrics.IncProgressSave("complete")
	return s.Get(ctx, studentID, videoID)
}

// Get returns the stored state, or the zero state when nothing was reported yet.
func (s *Store) Get(ctx context.Context, studentID, videoID uuid.UUID) (VideoProgress, error) {
	var rows []VideoProgress
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND video_id = ?", studentID, videoID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return VideoProgress{}, err
	}
	if len(rows) == 0 {
		return VideoProgress{StudentID: studentID, VideoID: videoID}, nil
	}
	return rows[0], nil
}

// ListForVideos loads the student's rows for several videos in one query. Videos
// without a row are absent from the map.
func (s *Store) ListForVideos(ctx context.Context, studentID uuid.UUID, videoIDs []uuid.UUID) (map[uuid.UUID]VideoProgress, error) {
	out := make(map[uuid.UUID]VideoProgress, len(videoIDs))
	if len(videoIDs) == 0 {
		return out, nil
	}

	ids := make(pq.StringArray, len(videoIDs))
	for i, id := range videoIDs {
		ids[i] = id.String()
	}

	var rows []VideoProgress
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND video_id = ANY(?::uuid[])", studentID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.VideoID] = row
	}
	return out, nil
}

// CompletedVideoIDs lists the completed videos of a course for a student.
func (s *Store) CompletedVideoIDs(ctx context.Context, studentID, courseID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.db.WithContext(ctx).
		Model(&VideoProgress{}).
		Joins("JOIN videos ON videos.id = video_progress.video_id").
		Joins("JOIN lectures ON lectures.id = videos.lecture_id").
		Where("video_progress.student_id = ? AND video_progress.is_completed AND lectures.course_id = ?", studentID, courseID).
		Order("lectures.position ASC, videos.position ASC").
		Pluck("video_progress.video_id", &ids).Error
	return ids, err
}
