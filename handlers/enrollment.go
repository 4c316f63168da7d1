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

// EnrollInCourse enrolls the authenticated student. The (student, course)
// pair must be unique; the store does not enforce that, so it is checked
// here before the write.
func (h *Handler) EnrollInCourse(c *gin.Context) {
	courseID := c.Param("id")
	user := currentUser(c)

	if _, err := h.store.GetCourse(courseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
			return
		}
		log.Printf("Error fetching course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to enroll in course"})
		return
	}

	enrolled, err := h.store.IsEnrolled(user.ID, courseID)
	if err != nil {
		log.Printf("Error checking enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to enroll in course"})
		return
	}
	if enrolled {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already enrolled in this course"})
		return
	}

	enrollment := models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  user.ID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := h.store.CreateEnrollment(enrollment); err != nil {
		log.Printf("Error creating enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to enroll in course"})
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// GetStudentEnrollments lists the courses the authenticated student is
// enrolled in. Enrollments pointing at deleted courses are skipped.
func (h *Handler) GetStudentEnrollments(c *gin.Context) {
	enrollments, err := h.store.GetEnrollmentsByStudent(currentUser(c).ID)
	if err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch enrollments"})
		return
	}

	courses := []models.Course{}
	for _, enrollment := range enrollments {
		course, err := h.store.GetCourse(enrollment.CourseID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("Error fetching enrolled course: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch enrollments"})
			return
		}
		courses = append(courses, *course)
	}

	c.JSON(http.StatusOK, courses)
}
