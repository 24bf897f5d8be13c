package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKeepsExistingAppError(t *testing.T) {
	orig := Forbidden("enroll first")
	wrapped := fmt.Errorf("gate: %w", orig)

	got := Wrap(wrapped, "internal", http.StatusInternalServerError, ErrInternal)
	if got != orig {
		t.Fatalf("Wrap returned %v, want the original AppError", got)
	}
	if !Is(wrapped, ErrForbidden) {
		t.Fatal("Is should see through wrapping")
	}
}

func TestWrapPlainError(t *testing.T) {
	base := errors.New("connection refused")
	got := Wrap(base, "database unavailable", http.StatusServiceUnavailable, ErrInternal)

	if got.StatusCode() != http.StatusServiceUnavailable || got.Message() != "database unavailable" {
		t.Fatalf("unexpected wrap result %+v", got)
	}
	if !errors.Is(got, base) {
		t.Fatal("wrapped AppError should unwrap to the cause")
	}
	if Wrap(nil, "x", 500, ErrInternal) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}
