package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

const (
	keyUserID = "user_id"
	keyRole   = "role"
)

// Manager keeps the signed-in account in an HMAC-signed cookie.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// Identity is what a session cookie carries.
type Identity struct {
	UserID uuid.UUID
	Role   types.UserType
}

// NewManager builds a cookie store from config.
func NewManager(cfg config.SessionConfig) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, name: cfg.CookieName}
}

// Login writes the identity into the session cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, id Identity) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[keyUserID] = id.UserID.String()
	sess.Values[keyRole] = string(id.Role)
	return sess.Save(r, w)
}

// Logout expires the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Identity reads the signed-in account; ok is false for guests and tampered cookies.
func (m *Manager) Identity(r *http.Request) (Identity, bool) {
	sess, err := m.store.Get(r, m.name)
	if err != nil || sess.IsNew {
		return Identity{}, false
	}

	rawID, _ := sess.Values[keyUserID].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, false
	}
	role, _ := sess.Values[keyRole].(string)

	return Identity{UserID: userID, Role: types.UserType(role)}, true
}
