package course_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/testutil"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

func TestCreateAndUpdateCourse(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()

	price, _ := types.NewMoneyFromString("19.99")
	created, err := course.Create(ctx, tx, course.CreateInput{
		InstructorID:    uuid.New(),
		Title:           "  Go in practice ",
		FullDescription: "Channels and context",
		Price:           &price,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Go in practice" || !created.Published {
		t.Fatalf("unexpected course %+v", created)
	}

	loaded, err := course.Get(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.FullDescription.Content != "Channels and context" || loaded.Price.String() != "19.99" {
		t.Fatalf("round trip lost data: %+v", loaded)
	}

	draft := false
	updated, err := course.Update(ctx, tx, created.ID, course.UpdateInput{Published: &draft})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Published {
		t.Fatal("course should be a draft")
	}
	if _, err := course.GetPublished(ctx, tx, created.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Fatalf("GetPublished on draft = %v", err)
	}

	list, total, err := course.List(ctx, tx, course.ListFilters{Keyword: "practice", PublishedOnly: true}, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range list {
		if c.ID == created.ID {
			t.Fatalf("draft listed in catalog (total %d)", total)
		}
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	if _, err := course.Create(context.Background(), tx, course.CreateInput{InstructorID: uuid.New(), Title: " "}); !errors.Is(err, course.ErrTitleRequired) {
		t.Fatalf("err = %v, want ErrTitleRequired", err)
	}
}

func TestWriteRatingUnknownCourse(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	if err := course.WriteRating(context.Background(), tx, uuid.New(), 4.5, 2); !errors.Is(err, course.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}
