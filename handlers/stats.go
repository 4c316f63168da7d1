package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mitushi-dot/StudySphere/models"
)

// GetTeacherStats aggregates enrollment and upload counts across the
// authenticated teacher's courses.
func (h *Handler) GetTeacherStats(c *gin.Context) {
	courses, err := h.store.GetCoursesByTeacher(currentUser(c).ID)
	if err != nil {
		log.Printf("Error fetching teacher stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch teacher stats"})
		return
	}

	stats := models.TeacherStats{
		TotalCourses:   len(courses),
		EngagementRate: 89, // placeholder until engagement tracking lands
	}
	for _, course := range courses {
		enrollments, err := h.store.GetEnrollmentsByCourse(course.ID)
		if err != nil {
			log.Printf("Error fetching teacher stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch teacher stats"})
			return
		}
		content, err := h.store.GetContentByCourse(course.ID)
		if err != nil {
			log.Printf("Error fetching teacher stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch teacher stats"})
			return
		}
		stats.TotalStudents += len(enrollments)
		stats.TotalUploads += len(content)
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentStats reports dashboard aggregates for the authenticated
// student.
func (h *Handler) GetStudentStats(c *gin.Context) {
	enrollments, err := h.store.GetEnrollmentsByStudent(currentUser(c).ID)
	if err != nil {
		log.Printf("Error fetching student stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch student stats"})
		return
	}

	c.JSON(http.StatusOK, models.StudentStats{
		CoursesEnrolled: len(enrollments),
		HoursStudied:    47, // placeholder until study-time tracking lands
		Completed:       8,  // placeholder until completion tracking lands
	})
}
