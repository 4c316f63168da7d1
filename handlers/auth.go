package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mitushi-dot/StudySphere/auth"
	"github.com/mitushi-dot/StudySphere/models"
	"github.com/mitushi-dot/StudySphere/storage"
)

// Register creates an account and immediately establishes a session.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	_, err := h.store.GetUserByUsername(req.Username)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already exists",
			"code":    "USER_EXISTS",
		})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Registration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"code":    "REGISTRATION_ERROR",
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"code":    "REGISTRATION_ERROR",
		})
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Password:  hashed,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: time.Now(),
	}
	if err := h.store.CreateUser(user); err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"code":    "REGISTRATION_ERROR",
		})
		return
	}

	s, err := h.sessions.Session(c.Request)
	if err == nil {
		err = h.sessions.SetUser(c.Writer, c.Request, s, user.Public())
	}
	if err != nil {
		log.Printf("Error creating session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"code":    "REGISTRATION_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user.Public(),
	})
}

// Login authenticates credentials. Failures increment the session's
// failed-attempt counter consumed by the rate limiter.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	s, err := h.sessions.Session(c.Request)
	if err != nil {
		log.Printf("Login session error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Login failed",
			"code":    "LOGIN_ERROR",
		})
		return
	}

	user, err := h.store.GetUserByUsername(req.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Login failed",
			"code":    "LOGIN_ERROR",
		})
		return
	}

	if user == nil || !auth.CheckPassword(req.Password, user.Password) {
		if err := h.sessions.RecordFailure(c.Writer, c.Request, s); err != nil {
			log.Printf("Error recording failed login: %v", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Invalid credentials",
			"code":    "INVALID_CREDENTIALS",
		})
		return
	}

	if err := h.sessions.SetUser(c.Writer, c.Request, s, user.Public()); err != nil {
		log.Printf("Error creating session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Login failed",
			"code":    "LOGIN_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// Logout destroys the server-side session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	s, err := h.sessions.Session(c.Request)
	if err == nil {
		err = h.sessions.Destroy(c.Writer, c.Request, s)
	}
	if err != nil {
		log.Printf("Logout error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Logout failed",
			"code":    "LOGOUT_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
		"code":    "LOGOUT_SUCCESS",
	})
}

// Me reports the current session identity. A successful check occasionally
// re-keys the session as a fixation defense.
func (h *Handler) Me(c *gin.Context) {
	s, err := h.sessions.Session(c.Request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Session error"})
		return
	}

	user, ok := h.sessions.User(s)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Not authenticated",
			"code":    "AUTH_REQUIRED",
		})
		return
	}

	if err := h.sessions.MaybeRotate(c.Writer, c.Request, s); err != nil {
		log.Printf("Session rotation error: %v", err)
	}

	sessionInfo := gin.H{"createdAt": nil, "expiresAt": nil}
	if createdAt, expiresAt, found := h.sessions.Lifetime(s); found {
		sessionInfo["createdAt"] = createdAt.Format(time.RFC3339)
		sessionInfo["expiresAt"] = expiresAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"sessionInfo": sessionInfo,
	})
}

// ChangePassword verifies the current password before storing a new hash.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user := currentUser(c)
	stored, err := h.store.GetUserByUsername(user.Username)
	if err != nil {
		log.Printf("Password change error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Password change failed",
			"code":    "PASSWORD_CHANGE_ERROR",
		})
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, stored.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Current password is incorrect",
			"code":    "INVALID_PASSWORD",
		})
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err == nil {
		err = h.store.UpdateUserPassword(user.ID, hashed)
	}
	if err != nil {
		log.Printf("Password change error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Password change failed",
			"code":    "PASSWORD_CHANGE_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully",
		"code":    "PASSWORD_CHANGED",
	})
}

// Refresh re-touches the session, extending its expiry by the full max-age.
func (h *Handler) Refresh(c *gin.Context) {
	s, err := h.sessions.Session(c.Request)
	if err == nil {
		err = h.sessions.Touch(c.Writer, c.Request, s)
	}
	if err != nil {
		log.Printf("Session refresh error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Session refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session refreshed",
		"code":    "SESSION_REFRESHED",
		"user":    currentUser(c),
	})
}
