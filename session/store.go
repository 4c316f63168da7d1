package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// MemoryStore keeps session state server-side, keyed by an opaque id. The
// client cookie carries only the signed id, never the session values. It
// implements gorilla's sessions.Store so handlers work with the usual
// Get/Save flow.
//
// State is process-resident: a restart invalidates every session.
type MemoryStore struct {
	Options *sessions.Options

	// Now supplies the store's clock. Tests swap it to age records.
	Now func() time.Time

	codec   *securecookie.SecureCookie
	mu      sync.RWMutex
	records map[string]*record
}

type record struct {
	values    map[interface{}]interface{}
	createdAt time.Time
	expiresAt time.Time
}

// NewMemoryStore creates a store whose cookies are signed with secret.
func NewMemoryStore(secret []byte) *MemoryStore {
	return &MemoryStore{
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
		Now:     time.Now,
		codec:   securecookie.New(secret, nil),
		records: make(map[string]*record),
	}
}

// Get returns the request's session, cached in the request registry.
func (s *MemoryStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New builds a session from the request cookie. A missing cookie, a bad
// signature or an unknown id all yield a fresh anonymous session; an expired
// record is pruned and leaves an expiry marker on the new session.
func (s *MemoryStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := s.codec.Decode(name, cookie.Value, &id); err != nil {
		return session, nil
	}

	s.mu.Lock()
	rec, ok := s.records[id]
	if ok && s.Now().After(rec.expiresAt) {
		delete(s.records, id)
		s.mu.Unlock()
		session.Values[keyExpired] = true
		return session, nil
	}
	if ok {
		session.ID = id
		session.IsNew = false
		session.Values = copyValues(rec.values)
	}
	s.mu.Unlock()

	return session, nil
}

// Save persists the session values server-side and (re)issues the signed
// cookie. A negative MaxAge destroys the record and expires the cookie.
func (s *MemoryStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		s.mu.Lock()
		delete(s.records, session.ID)
		s.mu.Unlock()
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	now := s.Now()
	ttl := time.Duration(session.Options.MaxAge) * time.Second

	s.mu.Lock()
	if session.ID == "" {
		session.ID = newSessionID()
	}
	createdAt := now
	if prev, ok := s.records[session.ID]; ok {
		createdAt = prev.createdAt
	}
	s.records[session.ID] = &record{
		values:    copyValues(session.Values),
		createdAt: createdAt,
		expiresAt: now.Add(ttl),
	}
	s.mu.Unlock()

	encoded, err := s.codec.Encode(session.Name(), session.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Drop removes the server-side record for the session and clears its id, so
// the next Save issues a fresh one. Used for session-fixation rotation.
func (s *MemoryStore) Drop(session *sessions.Session) {
	if session.ID != "" {
		s.mu.Lock()
		delete(s.records, session.ID)
		s.mu.Unlock()
	}
	session.ID = ""
}

// Lifetime reports when the session record was created and when it expires.
func (s *MemoryStore) Lifetime(session *sessions.Session) (createdAt, expiresAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, found := s.records[session.ID]
	if !found {
		return time.Time{}, time.Time{}, false
	}
	return rec.createdAt, rec.expiresAt, true
}

// Len reports the number of live session records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func newSessionID() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("session: cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

func copyValues(src map[interface{}]interface{}) map[interface{}]interface{} {
	dst := make(map[interface{}]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
