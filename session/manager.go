package session

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/mitushi-dot/StudySphere/models"
)

// CookieName is the session cookie issued to clients.
const CookieName = "studysphere.sid"

// Value keys inside a session record.
const (
	keyUserID     = "userID"
	keyUsername   = "username"
	keyName       = "name"
	keyRole       = "role"
	keyAttempts   = "loginAttempts"
	keyLastFailed = "lastFailedLogin"
	keyExpired    = "expired"
)

// Manager owns the session store and the typed accessors on top of it. It
// is injected into middleware and handlers instead of living as a package
// singleton.
type Manager struct {
	store *MemoryStore
}

// NewManager builds a Manager whose cookies are signed with secret. In
// production the cookie additionally carries the Secure flag.
func NewManager(secret string, production bool) *Manager {
	store := NewMemoryStore([]byte(secret))
	store.Options.Secure = production
	return &Manager{store: store}
}

// Store exposes the underlying session store, letting callers tune its
// options or clock.
func (m *Manager) Store() *MemoryStore {
	return m.store
}

// Session returns the request's session, creating an anonymous one if the
// client presented no valid cookie.
func (m *Manager) Session(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, CookieName)
}

// User returns the authenticated identity held by the session, if any.
func (m *Manager) User(s *sessions.Session) (models.PublicUser, bool) {
	id, ok := s.Values[keyUserID].(string)
	if !ok || id == "" {
		return models.PublicUser{}, false
	}
	username, _ := s.Values[keyUsername].(string)
	name, _ := s.Values[keyName].(string)
	role, _ := s.Values[keyRole].(string)
	return models.PublicUser{ID: id, Username: username, Name: name, Role: role}, true
}

// SetUser transitions the session to Authenticated: it stores the identity
// and resets the failed-login counter.
func (m *Manager) SetUser(w http.ResponseWriter, r *http.Request, s *sessions.Session, u models.PublicUser) error {
	s.Values[keyUserID] = u.ID
	s.Values[keyUsername] = u.Username
	s.Values[keyName] = u.Name
	s.Values[keyRole] = u.Role
	s.Values[keyAttempts] = 0
	delete(s.Values, keyLastFailed)
	delete(s.Values, keyExpired)
	return s.Save(r, w)
}

// Destroy removes the server-side record and expires the client cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	s.Options.MaxAge = -1
	for k := range s.Values {
		delete(s.Values, k)
	}
	return s.Save(r, w)
}

// Touch re-saves the session, refreshing the server-side expiry and the
// cookie max-age. Used only by the explicit refresh endpoint.
func (m *Manager) Touch(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	return s.Save(r, w)
}

// Expired reports whether the client presented a cookie for a session whose
// server-side record had already expired.
func (m *Manager) Expired(s *sessions.Session) bool {
	expired, _ := s.Values[keyExpired].(bool)
	return expired
}

// FailedAttempts returns the consecutive failed-login counter and the time
// of the last failure.
func (m *Manager) FailedAttempts(s *sessions.Session) (int, time.Time) {
	attempts, _ := s.Values[keyAttempts].(int)
	var last time.Time
	if unix, ok := s.Values[keyLastFailed].(int64); ok {
		last = time.Unix(unix, 0)
	}
	return attempts, last
}

// RecordFailure increments the failed-login counter.
func (m *Manager) RecordFailure(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	attempts, _ := s.Values[keyAttempts].(int)
	s.Values[keyAttempts] = attempts + 1
	s.Values[keyLastFailed] = time.Now().Unix()
	return s.Save(r, w)
}

// ResetFailures clears the failed-login counter after the lockout window.
func (m *Manager) ResetFailures(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	s.Values[keyAttempts] = 0
	delete(s.Values, keyLastFailed)
	return s.Save(r, w)
}

// MaybeRotate regenerates the session id roughly once per ten calls, as a
// defense against session fixation. The draw comes from crypto/rand so the
// rotation stays non-deterministic.
func (m *Manager) MaybeRotate(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return err
	}
	if b[0] >= 26 {
		return nil
	}
	return m.Rotate(w, r, s)
}

// Rotate re-keys the session: the old record is dropped and the values are
// saved under a fresh id.
func (m *Manager) Rotate(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	m.store.Drop(s)
	return s.Save(r, w)
}

// Lifetime reports when the session record was created and when it expires.
func (m *Manager) Lifetime(s *sessions.Session) (createdAt, expiresAt time.Time, ok bool) {
	return m.store.Lifetime(s)
}
