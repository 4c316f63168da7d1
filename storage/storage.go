package storage

import (
	"errors"

	"github.com/mitushi-dot/StudySphere/models"
)

// ErrNotFound indicates that the requested record could not be located.
var ErrNotFound = errors.New("storage: not found")

// ErrCorrupted indicates that a collection file on disk is not valid JSON.
var ErrCorrupted = errors.New("storage: corrupted collection file")

// Storage defines the persistence operations used by the handlers.
//
// All four collections are independent flat lists. Referential integrity
// between them is the callers' responsibility; the store never enforces it.
type Storage interface {
	// User methods
	GetUser(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user models.User) error
	UpdateUserPassword(userID, newHash string) error

	// Course methods
	GetCourses() ([]models.Course, error)
	GetCourse(id string) (*models.Course, error)
	GetCoursesByTeacher(teacherID string) ([]models.Course, error)
	CreateCourse(course models.Course) error

	// Content methods
	GetContentByCourse(courseID string) ([]models.Content, error)
	GetContent(id string) (*models.Content, error)
	CreateContent(content models.Content) error
	UpdateContentViews(id string) error
	DeleteContent(id string) (bool, error)

	// Enrollment methods
	GetEnrollmentsByStudent(studentID string) ([]models.Enrollment, error)
	GetEnrollmentsByCourse(courseID string) ([]models.Enrollment, error)
	CreateEnrollment(enrollment models.Enrollment) error
	IsEnrolled(studentID, courseID string) (bool, error)
}
