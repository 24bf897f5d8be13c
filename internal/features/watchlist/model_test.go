package watchlist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/watchlist"
	"github.com/mo-amir99/coursehub-server-go/internal/testutil"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
)

func TestWatchlistLifecycle(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()
	student := uuid.New()

	c, err := course.Create(ctx, tx, course.CreateInput{InstructorID: uuid.New(), Title: "Kubernetes basics"})
	if err != nil {
		t.Fatalf("course: %v", err)
	}

	if _, err := watchlist.Add(ctx, tx, student, c.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := watchlist.Add(ctx, tx, student, c.ID); !errors.Is(err, watchlist.ErrAlreadyListed) {
		t.Fatalf("second add err = %v", err)
	}

	courses, total, err := watchlist.Courses(ctx, tx, student, pagination.New(1, 10))
	if err != nil || total != 1 || len(courses) != 1 || courses[0].ID != c.ID {
		t.Fatalf("courses = %v %d %v", courses, total, err)
	}

	listed, err := watchlist.Toggle(ctx, tx, student, c.ID)
	if err != nil || listed {
		t.Fatalf("toggle off = %v %v", listed, err)
	}
	listed, err = watchlist.Toggle(ctx, tx, student, c.ID)
	if err != nil || !listed {
		t.Fatalf("toggle on = %v %v", listed, err)
	}

	if err := watchlist.Remove(ctx, tx, student, c.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := watchlist.Remove(ctx, tx, student, c.ID); !errors.Is(err, watchlist.ErrNotListed) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestWatchlistRejectsUnknownCourse(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	if _, err := watchlist.Add(context.Background(), tx, uuid.New(), uuid.New()); !errors.Is(err, course.ErrCourseNotFound) {
		t.Fatalf("err = %v", err)
	}
}
