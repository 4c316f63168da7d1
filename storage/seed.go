package storage

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mitushi-dot/StudySphere/auth"
	"github.com/mitushi-dot/StudySphere/models"
)

// seedSampleData populates the empty store with one teacher, one student,
// two courses and one content item. It skips entirely once any user exists,
// so repeated startups are idempotent.
func (s *FileStore) seedSampleData() error {
	s.users.mu.Lock()
	var users []models.User
	if err := readFile(&s.users, &users); err != nil {
		s.users.mu.Unlock()
		return err
	}
	s.users.mu.Unlock()

	if len(users) > 0 {
		return nil
	}

	log.Println("Initializing sample data")

	hashed, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	now := time.Now()
	teacher := models.User{
		ID:        uuid.NewString(),
		Username:  "teacher@example.com",
		Password:  hashed,
		Name:      "Prof. Johnson",
		Role:      models.RoleTeacher,
		CreatedAt: now,
	}
	student := models.User{
		ID:        uuid.NewString(),
		Username:  "student@example.com",
		Password:  hashed,
		Name:      "John Doe",
		Role:      models.RoleStudent,
		CreatedAt: now,
	}

	mathCourse := models.Course{
		ID:          uuid.NewString(),
		Title:       "Mathematics 101",
		Description: "Basic algebra and geometry concepts",
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		Icon:        "fas fa-calculator",
		Color:       "academic-blue",
		CreatedAt:   now,
	}
	physicsCourse := models.Course{
		ID:          uuid.NewString(),
		Title:       "Physics 201",
		Description: "Mechanics and thermodynamics",
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		Icon:        "fas fa-atom",
		Color:       "success-green",
		CreatedAt:   now,
	}

	description := "Basic concepts and fundamentals"
	algebraIntro := models.Content{
		ID:          uuid.NewString(),
		CourseID:    mathCourse.ID,
		Title:       "Introduction to Algebra",
		Description: &description,
		Type:        "video",
		FileName:    "intro-algebra.mp4",
		FileSize:    "15.3 MB",
		FilePath:    "/uploads/intro-algebra.mp4",
		Views:       "143",
		CreatedAt:   now,
	}

	if err := writeFile(&s.users, []models.User{teacher, student}); err != nil {
		return err
	}
	if err := writeFile(&s.courses, []models.Course{mathCourse, physicsCourse}); err != nil {
		return err
	}
	if err := writeFile(&s.content, []models.Content{algebraIntro}); err != nil {
		return err
	}

	log.Println("Sample data initialized")
	return nil
}
