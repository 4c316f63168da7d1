package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitushi-dot/StudySphere/auth"
	"github.com/mitushi-dot/StudySphere/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestOpenSeedsSampleData(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	teacher, err := store.GetUserByUsername("teacher@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Prof. Johnson", teacher.Name)
	assert.Equal(t, models.RoleTeacher, teacher.Role)
	assert.True(t, auth.CheckPassword("password123", teacher.Password))

	student, err := store.GetUserByUsername("student@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)

	courses, err := store.GetCourses()
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Mathematics 101", courses[0].Title)
	assert.Equal(t, teacher.ID, courses[0].TeacherID)

	content, err := store.GetContentByCourse(courses[0].ID)
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "Introduction to Algebra", content[0].Title)
	assert.Equal(t, "143", content[0].Views)
}

func TestSeedingIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	teacher, err := store.GetUserByUsername("teacher@example.com")
	require.NoError(t, err)

	// Reopening an already-seeded directory must not seed again.
	reopened, err := Open(dir)
	require.NoError(t, err)

	again, err := reopened.GetUserByUsername("teacher@example.com")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, again.ID)

	courses, err := reopened.GetCourses()
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestSeedingSkipsWhenAnyUserExists(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	extra := models.User{
		ID:        uuid.NewString(),
		Username:  "extra@example.com",
		Password:  "hash",
		Name:      "Extra",
		Role:      models.RoleStudent,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateUser(extra))

	reopened, err := Open(dir)
	require.NoError(t, err)
	kept, err := reopened.GetUserByUsername("extra@example.com")
	require.NoError(t, err)
	assert.Equal(t, extra.ID, kept.ID)
}

func TestUserLookupAndPasswordUpdate(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetUserByUsername("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	user := models.User{
		ID:        uuid.NewString(),
		Username:  "new@example.com",
		Password:  "old-hash",
		Name:      "New User",
		Role:      models.RoleStudent,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateUser(user))

	byID, err := store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, byID.Username)

	require.NoError(t, store.UpdateUserPassword(user.ID, "new-hash"))
	updated, err := store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.Password)

	assert.ErrorIs(t, store.UpdateUserPassword("missing", "x"), ErrNotFound)
}

func TestCourseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	course := models.Course{
		ID:          uuid.NewString(),
		Title:       "Chemistry 301",
		Description: "Organic chemistry",
		TeacherID:   uuid.NewString(),
		TeacherName: "Dr. Smith",
		Icon:        "fas fa-flask",
		Color:       "purple-600",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.CreateCourse(course))

	// A fresh handle over the same directory must reproduce the record.
	reopened, err := Open(dir)
	require.NoError(t, err)
	got, err := reopened.GetCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Title, got.Title)
	assert.Equal(t, course.TeacherID, got.TeacherID)
	assert.Equal(t, course.Icon, got.Icon)
	assert.WithinDuration(t, course.CreatedAt, got.CreatedAt, time.Second)

	byTeacher, err := reopened.GetCoursesByTeacher(course.TeacherID)
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, course.ID, byTeacher[0].ID)
}

func TestUpdateContentViewsSerialized(t *testing.T) {
	store := newTestStore(t)

	content := models.Content{
		ID:        uuid.NewString(),
		CourseID:  uuid.NewString(),
		Title:     "Lecture 1",
		Type:      "video",
		FileName:  "lecture-1.mp4",
		FileSize:  "10.0 MB",
		FilePath:  "/uploads/lecture-1.mp4",
		Views:     "0",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateContent(content))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.UpdateContentViews(content.ID))
		}()
	}
	wg.Wait()

	got, err := store.GetContent(content.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.Views)

	assert.ErrorIs(t, store.UpdateContentViews("missing"), ErrNotFound)
}

func TestDeleteContentIdempotent(t *testing.T) {
	store := newTestStore(t)

	courseID := uuid.NewString()
	first := models.Content{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     "Keep",
		Type:      "document",
		FileName:  "keep.pdf",
		FileSize:  "1.0 MB",
		FilePath:  "/uploads/keep.pdf",
		Views:     "0",
		CreatedAt: time.Now(),
	}
	second := first
	second.ID = uuid.NewString()
	second.Title = "Delete"
	require.NoError(t, store.CreateContent(first))
	require.NoError(t, store.CreateContent(second))

	deleted, err := store.DeleteContent(second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Retry must report not found and leave the collection unchanged.
	deleted, err = store.DeleteContent(second.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteContent("missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	remaining, err := store.GetContentByCourse(courseID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)
}

func TestEnrollmentQueries(t *testing.T) {
	store := newTestStore(t)

	studentID := uuid.NewString()
	courseID := uuid.NewString()

	enrolled, err := store.IsEnrolled(studentID, courseID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	enrollment := models.Enrollment{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, store.CreateEnrollment(enrollment))

	enrolled, err = store.IsEnrolled(studentID, courseID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	byStudent, err := store.GetEnrollmentsByStudent(studentID)
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, enrollment.ID, byStudent[0].ID)

	byCourse, err := store.GetEnrollmentsByCourse(courseID)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)

	other, err := store.GetEnrollmentsByStudent(uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCorruptedCollectionFile(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "courses.json"), []byte("{not json"), 0o644))

	_, err = store.GetCourses()
	assert.ErrorIs(t, err, ErrCorrupted)
}
