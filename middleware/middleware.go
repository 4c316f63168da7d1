package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitushi-dot/StudySphere/session"
)

// CurrentUserKey is where the auth guards stash the session identity for
// downstream handlers.
const CurrentUserKey = "currentUser"

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// timeNow is swapped out in tests to drive the lockout window.
var timeNow = time.Now

// Middleware bundles the guards around an injected session manager.
type Middleware struct {
	sessions *session.Manager
}

func New(sessions *session.Manager) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireAuth rejects requests without an authenticated session.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.sessions.Session(c.Request)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Session error"})
			c.Abort()
			return
		}

		if m.sessions.Expired(s) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Session expired",
				"code":    "SESSION_EXPIRED",
			})
			c.Abort()
			return
		}

		user, ok := m.sessions.User(s)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
				"code":    "AUTH_REQUIRED",
			})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole additionally rejects sessions whose user has the wrong role.
func (m *Middleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.sessions.Session(c.Request)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Session error"})
			c.Abort()
			return
		}

		user, ok := m.sessions.User(s)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
				"code":    "AUTH_REQUIRED",
			})
			c.Abort()
			return
		}

		if user.Role != role {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Access denied. " + role + " role required",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// LoginRateLimit blocks login once a session has accumulated five
// consecutive failures, until fifteen minutes have passed since the last
// one. The counter lives in the caller's own session, so discarding the
// cookie resets it; that weakness is kept for contract compatibility.
func (m *Middleware) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.sessions.Session(c.Request)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Session error"})
			c.Abort()
			return
		}

		attempts, lastFailed := m.sessions.FailedAttempts(s)
		if attempts < maxLoginAttempts {
			c.Next()
			return
		}

		sinceLastFailed := timeNow().Sub(lastFailed)
		if sinceLastFailed < lockoutWindow {
			remaining := int((lockoutWindow - sinceLastFailed + time.Minute - 1) / time.Minute)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":    fmt.Sprintf("Too many failed attempts. Try again in %d minutes", remaining),
				"code":       "RATE_LIMITED",
				"retryAfter": remaining,
			})
			c.Abort()
			return
		}

		if err := m.sessions.ResetFailures(c.Writer, c.Request, s); err != nil {
			log.Printf("Error resetting login attempts: %v", err)
		}
		c.Next()
	}
}

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Printf("Request: %s %s", c.Request.Method, c.Request.URL.Path)
		c.Next()
	}
}

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}

func ApplyMiddleware(r *gin.Engine) {
	r.Use(LoggerMiddleware())
	r.Use(RecoveryMiddleware())
}
