package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/mitushi-dot/StudySphere/models"
)

// collection is one JSON array file on disk. The mutex is held across the
// whole read-modify-write cycle so that concurrent writers cannot lose
// updates at the file granularity.
type collection struct {
	mu   sync.Mutex
	path string
}

// FileStore persists each collection as a JSON array file under a data
// directory. It is meant for a single process; there is no cross-process
// locking.
type FileStore struct {
	dir         string
	users       collection
	courses     collection
	content     collection
	enrollments collection
}

// Open creates the data directory if needed, initializes missing collection
// files with empty arrays and seeds sample data on first run.
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{dir: dir}
	s.users.path = filepath.Join(dir, "users.json")
	s.courses.path = filepath.Join(dir, "courses.json")
	s.content.path = filepath.Join(dir, "content.json")
	s.enrollments.path = filepath.Join(dir, "enrollments.json")

	for _, c := range []*collection{&s.users, &s.courses, &s.content, &s.enrollments} {
		if err := initFile(c.path); err != nil {
			return nil, err
		}
	}

	if err := s.seedSampleData(); err != nil {
		return nil, err
	}

	return s, nil
}

// Close releases nothing today but keeps the open/close pairing callers
// expect from a store handle.
func (s *FileStore) Close() error {
	return nil
}

func initFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte("[]"), 0o644)
}

func readFile(c *collection, out any) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupted, filepath.Base(c.path), err)
	}
	return nil
}

func writeFile(c *collection, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	return os.WriteFile(c.path, data, 0o644)
}

// User methods

func (s *FileStore) GetUser(id string) (*models.User, error) {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := readFile(&s.users, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) GetUserByUsername(username string) (*models.User, error) {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := readFile(&s.users, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreateUser(user models.User) error {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := readFile(&s.users, &users); err != nil {
		return err
	}
	users = append(users, user)
	return writeFile(&s.users, users)
}

func (s *FileStore) UpdateUserPassword(userID, newHash string) error {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()

	var users []models.User
	if err := readFile(&s.users, &users); err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == userID {
			users[i].Password = newHash
			return writeFile(&s.users, users)
		}
	}
	return ErrNotFound
}

// Course methods

func (s *FileStore) GetCourses() ([]models.Course, error) {
	s.courses.mu.Lock()
	defer s.courses.mu.Unlock()

	var courses []models.Course
	if err := readFile(&s.courses, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *FileStore) GetCourse(id string) (*models.Course, error) {
	s.courses.mu.Lock()
	defer s.courses.mu.Unlock()

	var courses []models.Course
	if err := readFile(&s.courses, &courses); err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) GetCoursesByTeacher(teacherID string) ([]models.Course, error) {
	s.courses.mu.Lock()
	defer s.courses.mu.Unlock()

	var courses []models.Course
	if err := readFile(&s.courses, &courses); err != nil {
		return nil, err
	}
	result := []models.Course{}
	for _, course := range courses {
		if course.TeacherID == teacherID {
			result = append(result, course)
		}
	}
	return result, nil
}

func (s *FileStore) CreateCourse(course models.Course) error {
	s.courses.mu.Lock()
	defer s.courses.mu.Unlock()

	var courses []models.Course
	if err := readFile(&s.courses, &courses); err != nil {
		return err
	}
	courses = append(courses, course)
	return writeFile(&s.courses, courses)
}

// Content methods

func (s *FileStore) GetContentByCourse(courseID string) ([]models.Content, error) {
	s.content.mu.Lock()
	defer s.content.mu.Unlock()

	var items []models.Content
	if err := readFile(&s.content, &items); err != nil {
		return nil, err
	}
	result := []models.Content{}
	for _, item := range items {
		if item.CourseID == courseID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (s *FileStore) GetContent(id string) (*models.Content, error) {
	s.content.mu.Lock()
	defer s.content.mu.Unlock()

	var items []models.Content
	if err := readFile(&s.content, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreateContent(content models.Content) error {
	s.content.mu.Lock()
	defer s.content.mu.Unlock()

	var items []models.Content
	if err := readFile(&s.content, &items); err != nil {
		return err
	}
	items = append(items, content)
	return writeFile(&s.content, items)
}

// UpdateContentViews increments the views counter by one. Views stays a
// numeric string on the wire, so it is parsed and re-rendered here.
func (s *FileStore) UpdateContentViews(id string) error {
	s.content.mu.Lock()
	defer s.content.mu.Unlock()

	var items []models.Content
	if err := readFile(&s.content, &items); err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			views, err := strconv.Atoi(items[i].Views)
			if err != nil {
				views = 0
			}
			items[i].Views = strconv.Itoa(views + 1)
			return writeFile(&s.content, items)
		}
	}
	return ErrNotFound
}

func (s *FileStore) DeleteContent(id string) (bool, error) {
	s.content.mu.Lock()
	defer s.content.mu.Unlock()

	var items []models.Content
	if err := readFile(&s.content, &items); err != nil {
		return false, err
	}
	filtered := make([]models.Content, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return false, nil
	}
	if err := writeFile(&s.content, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// Enrollment methods

func (s *FileStore) GetEnrollmentsByStudent(studentID string) ([]models.Enrollment, error) {
	s.enrollments.mu.Lock()
	defer s.enrollments.mu.Unlock()

	var enrollments []models.Enrollment
	if err := readFile(&s.enrollments, &enrollments); err != nil {
		return nil, err
	}
	result := []models.Enrollment{}
	for _, e := range enrollments {
		if e.StudentID == studentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *FileStore) GetEnrollmentsByCourse(courseID string) ([]models.Enrollment, error) {
	s.enrollments.mu.Lock()
	defer s.enrollments.mu.Unlock()

	var enrollments []models.Enrollment
	if err := readFile(&s.enrollments, &enrollments); err != nil {
		return nil, err
	}
	result := []models.Enrollment{}
	for _, e := range enrollments {
		if e.CourseID == courseID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *FileStore) CreateEnrollment(enrollment models.Enrollment) error {
	s.enrollments.mu.Lock()
	defer s.enrollments.mu.Unlock()

	var enrollments []models.Enrollment
	if err := readFile(&s.enrollments, &enrollments); err != nil {
		return err
	}
	enrollments = append(enrollments, enrollment)
	return writeFile(&s.enrollments, enrollments)
}

func (s *FileStore) IsEnrolled(studentID, courseID string) (bool, error) {
	s.enrollments.mu.Lock()
	defer s.enrollments.mu.Unlock()

	var enrollments []models.Enrollment
	if err := readFile(&s.enrollments, &enrollments); err != nil {
		return false, err
	}
	for _, e := range enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}
