package enrollment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/course"
	"github.com/mo-amir99/coursehub-server-go/internal/features/enrollment"
	"github.com/mo-amir99/coursehub-server-go/internal/testutil"
	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
	"github.com/mo-amir99/coursehub-server-go/pkg/pagination"
)

func TestEnrollAndRecount(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()
	registry := enrollment.NewRegistry(tx, logger.Discard())
	student := uuid.New()

	c, err := course.Create(ctx, tx, course.CreateInput{InstructorID: uuid.New(), Title: "Distributed systems"})
	if err != nil {
		t.Fatalf("course: %v", err)
	}

	enrolled, err := registry.IsEnrolled(ctx, student, c.ID)
	if err != nil || enrolled {
		t.Fatalf("before enroll = %v %v", enrolled, err)
	}

	if _, err := registry.Enroll(ctx, student, c.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := registry.Enroll(ctx, uuid.New(), c.ID); err != nil {
		t.Fatalf("second student: %v", err)
	}
	if _, err := registry.Enroll(ctx, student, c.ID); !errors.Is(err, enrollment.ErrAlreadyEnrolled) {
		t.Fatalf("duplicate err = %v", err)
	}

	enrolled, err = registry.IsEnrolled(ctx, student, c.ID)
	if err != nil || !enrolled {
		t.Fatalf("after enroll = %v %v", enrolled, err)
	}

	got, err := course.Get(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.TotalEnrollment != 2 {
		t.Fatalf("total enrollment = %d, want 2", got.TotalEnrollment)
	}

	courses, total, err := registry.Courses(ctx, student, pagination.New(1, 10))
	if err != nil || total != 1 || len(courses) != 1 || courses[0].ID != c.ID {
		t.Fatalf("courses = %v %d %v", courses, total, err)
	}
	if courses[0].EnrolledAt.IsZero() {
		t.Fatal("enrolledAt should be populated")
	}
}

func TestEnrollRejectsDraftCourse(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()
	draft := false

	c, err := course.Create(ctx, tx, course.CreateInput{InstructorID: uuid.New(), Title: "Unreleased", Published: &draft})
	if err != nil {
		t.Fatalf("course: %v", err)
	}

	registry := enrollment.NewRegistry(tx, logger.Discard())
	if _, err := registry.Enroll(ctx, uuid.New(), c.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Fatalf("draft enroll err = %v", err)
	}
}

func TestRecountJobRepairsTotals(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	ctx := context.Background()
	registry := enrollment.NewRegistry(tx, logger.Discard())

	c, err := course.Create(ctx, tx, course.CreateInput{InstructorID: uuid.New(), Title: "Compilers"})
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if _, err := registry.Enroll(ctx, uuid.New(), c.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := course.SetTotalEnrollment(ctx, tx, c.ID, 42); err != nil {
		t.Fatalf("corrupt total: %v", err)
	}

	job := enrollment.NewRecountJob(tx, registry)
	if err := job.Execute(ctx); err != nil {
		t.Fatalf("job: %v", err)
	}

	got, _ := course.Get(ctx, tx, c.ID)
	if got.TotalEnrollment != 1 {
		t.Fatalf("total enrollment = %d, want 1", got.TotalEnrollment)
	}
}
