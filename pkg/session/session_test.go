package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

func newManager() *Manager {
	return NewManager(config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", CookieName: "sid", MaxAge: 3600})
}

func TestLoginThenIdentity(t *testing.T) {
	m := newManager()
	want := Identity{UserID: uuid.New(), Role: types.UserTypeStudent}

	rec := httptest.NewRecorder()
	if err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), want); err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	got, ok := m.Identity(req)
	if !ok || got != want {
		t.Fatalf("identity = %+v, %v", got, ok)
	}
}

func TestIdentityRejectsGuestsAndForgedCookies(t *testing.T) {
	m := newManager()

	if _, ok := m.Identity(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("guest should have no identity")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	if _, ok := m.Identity(req); ok {
		t.Fatal("forged cookie accepted")
	}
}
