package models

import "time"

// Roles attached to a User and checked per endpoint.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User model. Username is a unique email address.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser is the session-safe projection of a User.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Public strips the password hash from a User.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

// Course model. TeacherName is a denormalized snapshot taken at creation.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacherId"`
	TeacherName string    `json:"teacherName"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Content model. Views is kept as a numeric string for wire compatibility.
type Content struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Type        string    `json:"type"`
	FileName    string    `json:"fileName"`
	FileSize    string    `json:"fileSize"`
	FilePath    string    `json:"filePath"`
	Views       string    `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Enrollment model. The (StudentID, CourseID) pair is unique.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"studentId"`
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// RegisterRequest for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"required,oneof=student teacher"`
}

// LoginRequest for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest for the password change flow
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// CreateCourseRequest for course creation by a teacher
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Icon        string `json:"icon" binding:"required"`
	Color       string `json:"color" binding:"required"`
}

// TeacherStats aggregates across a teacher's courses.
type TeacherStats struct {
	TotalStudents  int `json:"totalStudents"`
	TotalCourses   int `json:"totalCourses"`
	TotalUploads   int `json:"totalUploads"`
	EngagementRate int `json:"engagementRate"`
}

// StudentStats aggregates for a student dashboard.
type StudentStats struct {
	CoursesEnrolled int `json:"coursesEnrolled"`
	HoursStudied    int `json:"hoursStudied"`
	Completed       int `json:"completed"`
}
