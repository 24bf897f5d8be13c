package account

import (
	"errors"
	"testing"

	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

func TestPasswordHashing(t *testing.T) {
	if _, err := hashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password err = %v", err)
	}

	hashed, err := hashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	acc := Account{Password: hashed, Role: types.UserTypeStudent}
	if !acc.ComparePassword("correct horse") {
		t.Fatal("expected password to match")
	}
	if acc.ComparePassword("wrong horse") {
		t.Fatal("expected mismatch")
	}
	if (&Account{}).ComparePassword("") {
		t.Fatal("google-only accounts have no password")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("normalizeEmail = %q", got)
	}
}
