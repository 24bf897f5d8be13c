package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/pkg/metrics"
	"github.com/mo-amir99/coursehub-server-go/pkg/tracing"
)

// Catalog supplies the ordered course structure.
type Catalog interface {
	Lectures(ctx context.Context, courseID uuid.UUID) ([]lecture.Lecture, error)
	Lecture(ctx context.Context, id uuid.UUID) (lecture.Lecture, error)
	VideosByLecture(ctx context.Context, lectureIDs []uuid.UUID) (map[uuid.UUID][]lecture.Video, error)
	CourseVideos(ctx context.Context, courseID uuid.UUID) ([]lecture.Video, error)
}

// Enrollments answers whether a student is enrolled in a course.
type Enrollments interface {
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

// Reader loads stored watch state in bulk.
type Reader interface {
	ListForVideos(ctx context.Context, studentID uuid.UUID, videoIDs []uuid.UUID) (map[uuid.UUID]VideoProgress, error)
}

const defaultParallelism = 8

// Aggregator derives lecture and course completion from stored progress. Every call
// re-reads the store.
type Aggregator struct {
	catalog     Catalog
	enrollments Enrollments
	reader      Reader
	logger      *slog.Logger
	parallelism int
}

// NewAggregator wires an aggregator.
func NewAggregator(catalog Catalog, enrollments Enrollments, reader Reader, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		catalog:     catalog,
		enrollments: enrollments,
		reader:      reader,
		logger:      logger,
		parallelism: defaultParallelism,
	}
}

// CourseProgress counts fully completed lectures. A lecture counts only when every one
// of its videos is completed. Guests and unenrolled students get the zero result with
// TotalLectures still filled in.
func (a *Aggregator) CourseProgress(ctx context.Context, studentID *uuid.UUID, courseID uuid.UUID) (CourseProgress, error) {
	start := time.Now()
	defer func() { metrics.ObserveCourseProgress(time.Since(start)) }()

	ctx, span := tracing.Start(ctx, "progress.CourseProgress", attribute.String("course.id", courseID.String()))
	defer span.End()

	lectures, err := a.catalog.Lectures(ctx, courseID)
	if err != nil {
		return CourseProgress{}, err
	}

	result := CourseProgress{CourseID: courseID, TotalLectures: len(lectures)}
	if studentID == nil || len(lectures) == 0 {
		return result, nil
	}

	enrolled, err := a.enrollments.IsEnrolled(ctx, *studentID, courseID)
	if err != nil {
		return CourseProgress{}, err
	}
	if !enrolled {
		return result, nil
	}

	ids := make([]uuid.UUID, len(lectures))
	for i, l := range lectures {
		ids[i] = l.ID
	}
	videos, err := a.catalog.VideosByLecture(ctx, ids)
	if err != nil {
		return CourseProgress{}, err
	}

	var all []lecture.Video
	for _, l := range lectures {
		all = append(all, videos[l.ID]...)
	}
	rows := a.load(ctx, *studentID, all)

	breakdown := make([]LectureProgress, len(lectures))
	var g errgroup.Group
	g.SetLimit(a.parallelism)
	for i, l := range lectures {
		g.Go(func() error {
			breakdown[i] = lectureProgress(l, videos[l.ID], rows)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return CourseProgress{}, err
	}

	completed := 0
	for _, lp := range breakdown {
		if lp.IsComplete {
			completed++
		}
	}

	result.CompletedLectures = completed
	result.ProgressPercentage = Percent(completed, len(lectures))
	result.Lectures = breakdown
	return result, nil
}

// LectureProgress computes one lecture for a student.
func (a *Aggregator) LectureProgress(ctx context.Context, studentID, lectureID uuid.UUID) (LectureProgress, error) {
	l, err := a.catalog.Lecture(ctx, lectureID)
	if err != nil {
		return LectureProgress{}, err
	}
	videos, err := a.catalog.VideosByLecture(ctx, []uuid.UUID{lectureID})
	if err != nil {
		return LectureProgress{}, err
	}
	return lectureProgress(l, videos[lectureID], a.load(ctx, studentID, videos[lectureID])), nil
}

// NextVideo returns the first video, in course order, the student has not completed.
// When everything is completed it returns the first video; nil when the course has none.
func (a *Aggregator) NextVideo(ctx context.Context, studentID, courseID uuid.UUID) (*lecture.Video, error) {
	videos, err := a.catalog.CourseVideos(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, nil
	}

	rows := a.load(ctx, studentID, videos)
	for i := range videos {
		if !rows[videos[i].ID].IsCompleted {
			return &videos[i], nil
		}
	}
	return &videos[0], nil
}

func lectureProgress(l lecture.Lecture, videos []lecture.Video, rows map[uuid.UUID]VideoProgress) LectureProgress {
	lp := LectureProgress{LectureID: l.ID, Title: l.Title, TotalVideos: len(videos)}
	if len(videos) == 0 {
		return lp
	}

	for _, v := range videos {
		if rows[v.ID].IsCompleted {
			lp.CompletedVideos++
		}
	}

	lp.ProgressPercentage = Percent(lp.CompletedVideos, lp.TotalVideos)
	lp.IsComplete = lp.CompletedVideos == lp.TotalVideos
	return lp
}

// load reads progress rows in one query; a failed read counts every video as not completed.
func (a *Aggregator) load(ctx context.Context, studentID uuid.UUID, videos []lecture.Video) map[uuid.UUID]VideoProgress {
	if len(videos) == 0 {
		return map[uuid.UUID]VideoProgress{}
	}
	ids := make([]uuid.UUID, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	rows, err := a.reader.ListForVideos(ctx, studentID, ids)
	if err != nil {
		a.logger.Warn("progress lookup failed, counting videos as incomplete",
			slog.String("studentId", studentID.String()),
			slog.Int("videos", len(ids)),
			slog.String("error", err.Error()))
		return map[uuid.UUID]VideoProgress{}
	}
	return rows
}
