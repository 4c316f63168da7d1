package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mitushi-dot/StudySphere/handlers"
	"github.com/mitushi-dot/StudySphere/middleware"
	"github.com/mitushi-dot/StudySphere/models"
)

// SetupRoutes configures the API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handler, mw *middleware.Middleware) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", mw.LoginRateLimit(), h.Login)
	authGroup.POST("/logout", mw.RequireAuth(), h.Logout)
	authGroup.GET("/me", h.Me)
	authGroup.POST("/change-password", mw.RequireAuth(), h.ChangePassword)
	authGroup.POST("/refresh", mw.RequireAuth(), h.Refresh)

	// Course routes
	api.GET("/courses", mw.RequireAuth(), h.GetCourses)
	api.GET("/courses/:id", mw.RequireAuth(), h.GetCourse)
	api.POST("/courses", mw.RequireRole(models.RoleTeacher), h.CreateCourse)

	// Content routes
	api.GET("/courses/:id/content", mw.RequireAuth(), h.GetCourseContent)
	api.POST("/courses/:id/content", mw.RequireRole(models.RoleTeacher), h.UploadContent)
	api.PUT("/content/:id/view", mw.RequireAuth(), h.ViewContent)
	api.DELETE("/content/:id", mw.RequireRole(models.RoleTeacher), h.DeleteContent)

	// Enrollment routes
	api.POST("/courses/:id/enroll", mw.RequireRole(models.RoleStudent), h.EnrollInCourse)
	api.GET("/student/enrollments", mw.RequireRole(models.RoleStudent), h.GetStudentEnrollments)

	// Teacher and student dashboards
	api.GET("/teacher/courses", mw.RequireRole(models.RoleTeacher), h.GetTeacherCourses)
	api.GET("/teacher/stats", mw.RequireRole(models.RoleTeacher), h.GetTeacherStats)
	api.GET("/student/stats", mw.RequireRole(models.RoleStudent), h.GetStudentStats)
}
