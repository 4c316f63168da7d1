package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mitushi-dot/StudySphere/models"
	"github.com/mitushi-dot/StudySphere/storage"
)

// GetCourses lists every course in the catalog.
func (h *Handler) GetCourses(c *gin.Context) {
	courses, err := h.store.GetCourses()
	if err != nil {
		log.Printf("Error fetching courses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch courses"})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse returns a single course by id.
func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.store.GetCourse(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch course"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// GetTeacherCourses lists the courses owned by the authenticated teacher.
func (h *Handler) GetTeacherCourses(c *gin.Context) {
	courses, err := h.store.GetCoursesByTeacher(currentUser(c).ID)
	if err != nil {
		log.Printf("Error fetching teacher courses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch teacher courses"})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourse creates a course owned by the authenticated teacher. The
// teacher id and display name are snapshotted from the session, which the
// role guard has already confirmed belongs to a teacher.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req models.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user := currentUser(c)
	course := models.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   user.ID,
		TeacherName: user.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		CreatedAt:   time.Now(),
	}

	if err := h.store.CreateCourse(course); err != nil {
		log.Printf("Error creating course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create course"})
		return
	}

	c.JSON(http.StatusOK, course)
}
