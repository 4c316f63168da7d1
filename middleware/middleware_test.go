package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitushi-dot/StudySphere/models"
	"github.com/mitushi-dot/StudySphere/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func newTestRouter(sessions *session.Manager) *gin.Engine {
	mw := New(sessions)
	r := gin.New()
	r.GET("/protected", mw.RequireAuth(), ok)
	r.GET("/teacher-only", mw.RequireRole(models.RoleTeacher), ok)
	r.GET("/student-only", mw.RequireRole(models.RoleStudent), ok)
	r.POST("/login", mw.LoginRateLimit(), ok)
	return r
}

func authenticate(t *testing.T, sessions *session.Manager, role string) *http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	s, err := sessions.Session(r)
	require.NoError(t, err)
	require.NoError(t, sessions.SetUser(w, r, s, models.PublicUser{
		ID:       "user-1",
		Username: "someone@example.com",
		Name:     "Someone",
		Role:     role,
	}))
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuthWithoutSession(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeBody(t, w)["code"])
}

func TestRequireAuthWithSession(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := authenticate(t, sessions, models.RoleStudent)

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMismatch(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := authenticate(t, sessions, models.RoleStudent)

	r := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", decodeBody(t, w)["code"])
}

func TestRequireRoleMatch(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := authenticate(t, sessions, models.RoleTeacher)

	r := httptest.NewRequest(http.MethodGet, "/teacher-only", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleWithoutSession(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student-only", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeBody(t, w)["code"])
}

// failTimes drives the session's failed-login counter to n, threading the
// cookie between requests the way a browser would.
func failTimes(t *testing.T, sessions *session.Manager, cookie *http.Cookie, n int) *http.Cookie {
	t.Helper()
	for i := 0; i < n; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		if cookie != nil {
			r.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		s, err := sessions.Session(r)
		require.NoError(t, err)
		require.NoError(t, sessions.RecordFailure(w, r, s))
		for _, c := range w.Result().Cookies() {
			if c.Name == session.CookieName {
				cookie = c
			}
		}
	}
	return cookie
}

func TestLoginRateLimitBelowThreshold(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := failTimes(t, sessions, nil, 4)

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRateLimitBlocksAfterFiveFailures(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := failTimes(t, sessions, nil, 5)

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "RATE_LIMITED", body["code"])
	assert.InDelta(t, 15, body["retryAfter"], 1)
}

func TestLoginRateLimitResetsAfterLockoutWindow(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := failTimes(t, sessions, nil, 5)

	timeNow = func() time.Time { return time.Now().Add(16 * time.Minute) }
	defer func() { timeNow = time.Now }()

	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	// The counter was reset to zero on the way through.
	var next *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			next = c
		}
	}
	require.NotNil(t, next)
	r2 := httptest.NewRequest(http.MethodPost, "/login", nil)
	r2.AddCookie(next)
	s, err := sessions.Session(r2)
	require.NoError(t, err)
	attempts, _ := sessions.FailedAttempts(s)
	assert.Zero(t, attempts)
}

func TestExpiredSessionRejected(t *testing.T) {
	sessions := session.NewManager("test-secret", false)
	router := newTestRouter(sessions)
	cookie := authenticate(t, sessions, models.RoleStudent)

	// Advance the store clock past the record's expiry.
	sessions.Store().Now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_EXPIRED", decodeBody(t, w)["code"])
}
