package feedback

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

type courseRating struct {
	average float64
	total   int
	writes  int
}

type memoryRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]Feedback
	courses   map[uuid.UUID]*courseRating
	failWrite bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uuid.UUID]Feedback{}, courses: map[uuid.UUID]*courseRating{}}
}

func (m *memoryRepo) Exists(_ context.Context, studentID, courseID uuid.UUID) (bool, error) {
	_, err := m.Find(context.Background(), studentID, courseID)
	return err == nil, nil
}

func (m *memoryRepo) Create(_ context.Context, fb *Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.StudentID == fb.StudentID && row.CourseID == fb.CourseID {
			return ErrAlreadyReviewed
		}
	}
	fb.ID = uuid.New()
	m.rows[fb.ID] = *fb
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id uuid.UUID) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.rows[id]
	if !ok {
		return Feedback{}, ErrFeedbackNotFound
	}
	return fb, nil
}

func (m *memoryRepo) Find(_ context.Context, studentID, courseID uuid.UUID) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.StudentID == studentID && row.CourseID == courseID {
			return row, nil
		}
	}
	return Feedback{}, ErrFeedbackNotFound
}

func (m *memoryRepo) Update(_ context.Context, id uuid.UUID, rating int, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.rows[id]
	if !ok {
		return ErrFeedbackNotFound
	}
	fb.Rating, fb.Comment = rating, comment
	m.rows[id] = fb
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrFeedbackNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) RatingCounts(_ context.Context, courseID uuid.UUID) (map[int]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[int]int{}
	for _, row := range m.rows {
		if row.CourseID == courseID {
			counts[row.Rating]++
		}
	}
	return counts, nil
}

func (m *memoryRepo) WriteCourseRating(_ context.Context, courseID uuid.UUID, average float64, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("courses table locked")
	}
	c := m.course(courseID)
	c.average, c.total = average, total
	c.writes++
	return nil
}

func (m *memoryRepo) ListForCourse(_ context.Context, courseID uuid.UUID, _ pagination.Params) ([]Review, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Review
	for _, row := range m.rows {
		if row.CourseID == courseID {
			out = append(out, Review{Feedback: row})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, int64(len(out)), nil
}

func (m *memoryRepo) ListForStudent(_ context.Context, studentID uuid.UUID, _ pagination.Params) ([]Feedback, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Feedback
	for _, row := range m.rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

// course must be called with mu held.
func (m *memoryRepo) course(id uuid.UUID) *courseRating {
	c, ok := m.courses[id]
	if !ok {
		c = &courseRating{}
		m.courses[id] = c
	}
	return c
}

func (m *memoryRepo) rating(id uuid.UUID) courseRating {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.course(id)
}

type everyoneEnrolled struct{ except uuid.UUID }

func (e everyoneEnrolled) IsEnrolled(_ context.Context, studentID, _ uuid.UUID) (bool, error) {
	return studentID != e.except, nil
}

const goodComment = "Clear explanations and useful exercises."

func newService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, everyoneEnrolled{}, logger.Discard()), repo
}

func TestAddRecomputesAverageAndHistogram(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	courseID := uuid.New()

	for _, rating := range []int{5, 3, 4} {
		if _, err := svc.Add(ctx, uuid.New(), courseID, rating, goodComment); err != nil {
			t.Fatalf("add %d: %v", rating, err)
		}
	}

	got := repo.rating(courseID)
	if got.average != 4.0 || got.total != 3 {
		t.Fatalf("course rating = %+v, want 4.0 / 3", got)
	}

	stats, err := svc.Stats(ctx, courseID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := map[int]int{5: 1, 4: 1, 3: 1, 2: 0, 1: 0}
	for star, n := range want {
		if stats.Histogram[star] != n {
			t.Fatalf("histogram = %v, want %v", stats.Histogram, want)
		}
	}
	if stats.AverageRating != 4.0 || stats.TotalReviews != 3 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSecondReviewRejectedWithoutTouchingCourse(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	student, courseID := uuid.New(), uuid.New()

	if _, err := svc.Add(ctx, student, courseID, 4, goodComment); err != nil {
		t.Fatalf("first add: %v", err)
	}
	before := repo.rating(courseID)

	if _, err := svc.Add(ctx, student, courseID, 1, goodComment); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second add err = %v, want ErrAlreadyReviewed", err)
	}
	if after := repo.rating(courseID); after != before {
		t.Fatalf("course changed from %+v to %+v", before, after)
	}
}

func TestDeletingLastReviewResetsRating(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	student, courseID := uuid.New(), uuid.New()

	fb, err := svc.Add(ctx, student, courseID, 2, goodComment)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	other, err := svc.Add(ctx, uuid.New(), courseID, 5, goodComment)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Delete(ctx, &types.Viewer{ID: student, Role: types.UserTypeStudent}, fb.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := repo.rating(courseID); got.average != 5 || got.total != 1 {
		t.Fatalf("after first delete = %+v", got)
	}

	admin := &types.Viewer{ID: uuid.New(), Role: types.UserTypeAdmin}
	if err := svc.Delete(ctx, admin, other.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if got := repo.rating(courseID); got.average != 0 || got.total != 0 {
		t.Fatalf("after last delete = %+v, want 0/0", got)
	}
}

func TestDeleteByStrangerIsNotFound(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	fb, err := svc.Add(ctx, uuid.New(), uuid.New(), 3, goodComment)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	stranger := &types.Viewer{ID: uuid.New(), Role: types.UserTypeStudent}
	if err := svc.Delete(ctx, stranger, fb.ID); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateRecomputes(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	student, courseID := uuid.New(), uuid.New()

	fb, err := svc.Add(ctx, student, courseID, 1, goodComment)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	updated, err := svc.Update(ctx, student, fb.ID, 5, "  Much better after the second pass.  ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Comment != "Much better after the second pass." {
		t.Fatalf("comment not trimmed: %q", updated.Comment)
	}
	if got := repo.rating(courseID); got.average != 5 || got.total != 1 {
		t.Fatalf("rating = %+v", got)
	}

	if _, err := svc.Update(ctx, uuid.New(), fb.ID, 2, goodComment); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("foreign update err = %v", err)
	}
}

func TestValidation(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	courseID := uuid.New()

	cases := []struct {
		name    string
		rating  int
		comment string
		want    error
	}{
		{"rating zero", 0, goodComment, ErrInvalidRating},
		{"rating six", 6, goodComment, ErrInvalidRating},
		{"short", 4, "too short", ErrCommentTooShort},
		{"padded short", 4, "    nine char    ", ErrCommentTooShort},
		{"ten runes", 4, "ééééééééé!", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, uuid.New(), courseID, tc.rating, tc.comment)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if got := repo.rating(courseID); got.total != 1 {
		t.Fatalf("only the valid review should be stored, total = %d", got.total)
	}
}

func TestAddRequiresEnrollment(t *testing.T) {
	repo := newMemoryRepo()
	outsider := uuid.New()
	svc := NewService(repo, everyoneEnrolled{except: outsider}, logger.Discard())

	if _, err := svc.Add(context.Background(), outsider, uuid.New(), 5, goodComment); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestRecomputeFailureKeepsReview(t *testing.T) {
	svc, repo := newService()
	repo.failWrite = true
	ctx := context.Background()
	student, courseID := uuid.New(), uuid.New()

	fb, err := svc.Add(ctx, student, courseID, 4, goodComment)
	if err == nil {
		t.Fatal("expected recompute error")
	}
	if fb.ID == uuid.Nil {
		t.Fatal("the stored review should still be returned")
	}
	if exists, _ := repo.Exists(ctx, student, courseID); !exists {
		t.Fatal("review must not be rolled back")
	}

	repo.failWrite = false
	if _, err := svc.Recompute(ctx, courseID, "reconcile"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := repo.rating(courseID); got.average != 4 || got.total != 1 {
		t.Fatalf("reconciled rating = %+v", got)
	}
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		counts map[int]int
		want   float64
	}{
		{map[int]int{}, 0},
		{map[int]int{4: 3, 5: 1}, 4.3}, // 4.25
		{map[int]int{4: 2, 5: 1}, 4.3}, // 4.333
		{map[int]int{4: 1, 5: 2}, 4.7}, // 4.667
		{map[int]int{1: 1, 2: 1}, 1.5},
	}
	for _, tc := range cases {
		if got := summarize(uuid.Nil, tc.counts).AverageRating; got != tc.want {
			t.Fatalf("summarize(%v) = %v, want %v", tc.counts, got, tc.want)
		}
	}
}
