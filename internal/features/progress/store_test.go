package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/internal/features/progress"
	"github.com/mo-amir99/coursehub-server-go/internal/testutil"
)

func TestGetReturnsZeroStateForUnseenVideo(t *testing.T) {
	store := progress.NewStore(testutil.Tx(t, testutil.DB(t)))
	student, video := uuid.New(), uuid.New()

	got, err := store.Get(context.Background(), student, video)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentTime != 0 || got.Duration != 0 || got.IsCompleted || got.LastWatchedAt != nil {
		t.Fatalf("got %+v, want zero state", got)
	}
	if got.StudentID != student || got.VideoID != video {
		t.Fatal("zero state should still identify the pair")
	}
}

func TestSaveIsIdempotentUpsert(t *testing.T) {
	store := progress.NewStore(testutil.Tx(t, testutil.DB(t)))
	ctx := context.Background()
	student, video := uuid.New(), uuid.New()
	watched := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := progress.Payload{CurrentTime: 61.5, Duration: 300, LastWatchedAt: &watched}

	first, err := store.Save(ctx, student, video, payload)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.Save(ctx, student, video, payload)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("upsert must keep a single row")
	}
	if second.CurrentTime != 61.5 || second.Duration != 300 || second.IsCompleted || !second.LastWatchedAt.Equal(watched) {
		t.Fatalf("stored state drifted: %+v", second)
	}

	later := watched.Add(time.Minute)
	if _, err := store.Save(ctx, student, video, progress.Payload{CurrentTime: 300, Duration: 300, IsCompleted: true, LastWatchedAt: &later}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, student, video)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsCompleted || got.CurrentTime != 300 {
		t.Fatalf("last write should win, got %+v", got)
	}
}

func TestMarkCompletedUpserts(t *testing.T) {
	store := progress.NewStore(testutil.Tx(t, testutil.DB(t)))
	ctx := context.Background()
	student := uuid.New()

	fresh := uuid.New()
	got, err := store.MarkCompleted(ctx, student, fresh)
	if err != nil {
		t.Fatalf("mark fresh: %v", err)
	}
	if !got.IsCompleted || got.CurrentTime != 0 || got.Duration != 0 || got.LastWatchedAt == nil {
		t.Fatalf("fresh row = %+v", got)
	}

	watched := uuid.New()
	if _, err := store.Save(ctx, student, watched, progress.Payload{CurrentTime: 120, Duration: 240}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = store.MarkCompleted(ctx, student, watched)
	if err != nil {
		t.Fatalf("mark existing: %v", err)
	}
	if !got.IsCompleted || got.CurrentTime != 120 || got.Duration != 240 {
		t.Fatalf("existing row should keep its times: %+v", got)
	}
}

func TestBatchReadsAndCompletedVideos(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()
	store := progress.NewStore(tx)
	catalog := lecture.NewCatalog(tx)

	c, err := course.Create(ctx, tx, course.CreateInput{InstructorID: uuid.New(), Title: "SQL"})
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	l, err := catalog.CreateLecture(ctx, lecture.CreateLectureInput{CourseID: c.ID, Title: "Joins"})
	if err != nil {
		t.Fatalf("lecture: %v", err)
	}
	var videos []lecture.Video
	for _, title := range []string{"inner", "outer", "lateral"} {
		v, err := catalog.AddVideo(ctx, lecture.AddVideoInput{LectureID: l.ID, Title: title, URL: "/" + title})
		if err != nil {
			t.Fatalf("video: %v", err)
		}
		videos = append(videos, v)
	}

	student := uuid.New()
	if _, err := store.MarkCompleted(ctx, student, videos[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := store.Save(ctx, student, videos[1].ID, progress.Payload{CurrentTime: 5, Duration: 50}); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := store.ListForVideos(ctx, student, []uuid.UUID{videos[0].ID, videos[1].ID, videos[2].ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || !rows[videos[0].ID].IsCompleted || rows[videos[1].ID].CurrentTime != 5 {
		t.Fatalf("rows = %+v", rows)
	}

	done, err := store.CompletedVideoIDs(ctx, student, c.ID)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(done) != 1 || done[0] != videos[0].ID {
		t.Fatalf("completed = %v", done)
	}
}
