package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mitushi-dot/StudySphere/middleware"
	"github.com/mitushi-dot/StudySphere/models"
	"github.com/mitushi-dot/StudySphere/session"
	"github.com/mitushi-dot/StudySphere/storage"
)

// Handler maps validated requests to store operations. Its dependencies are
// injected so the API surface can be exercised against any Storage
// implementation in tests.
type Handler struct {
	store     storage.Storage
	sessions  *session.Manager
	uploadDir string
}

func NewHandler(store storage.Storage, sessions *session.Manager, uploadDir string) *Handler {
	return &Handler{
		store:     store,
		sessions:  sessions,
		uploadDir: uploadDir,
	}
}

// currentUser returns the identity the auth guard stashed in the context.
func currentUser(c *gin.Context) models.PublicUser {
	return c.MustGet(middleware.CurrentUserKey).(models.PublicUser)
}

// bindJSON binds and validates the request body. On failure it writes the
// VALIDATION_ERROR response with per-field messages and returns false.
func (h *Handler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid input data",
			"code":    "VALIDATION_ERROR",
			"errors":  fieldErrors(err),
		})
		return false
	}
	return true
}

func fieldErrors(err error) []gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []gin.H{{"field": "", "message": "Malformed request body"}}
	}

	out := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, gin.H{
			"field":   strings.ToLower(fe.Field()),
			"message": fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
