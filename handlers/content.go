package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mitushi-dot/StudySphere/models"
	"github.com/mitushi-dot/StudySphere/storage"
)

// maxUploadSize is the per-file ceiling for content uploads.
const maxUploadSize = 100 << 20 // 100MB

type uploadContentForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Type        string `form:"type" binding:"required,oneof=document video assignment presentation"`
}

// GetCourseContent lists the content items of one course.
func (h *Handler) GetCourseContent(c *gin.Context) {
	if _, err := h.store.GetCourse(c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
			return
		}
		log.Printf("Error fetching course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch content"})
		return
	}

	content, err := h.store.GetContentByCourse(c.Param("id"))
	if err != nil {
		log.Printf("Error fetching content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch content"})
		return
	}
	c.JSON(http.StatusOK, content)
}

// UploadContent stores the uploaded blob under the upload dir and records
// its metadata against the course.
func (h *Handler) UploadContent(c *gin.Context) {
	courseID := c.Param("id")
	if _, err := h.store.GetCourse(courseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
			return
		}
		log.Printf("Error fetching course: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload content"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "No file uploaded",
			"code":    "NO_FILE",
		})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "File exceeds the 100MB limit",
			"code":    "FILE_TOO_LARGE",
		})
		return
	}

	var form uploadContentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid input data",
			"code":    "VALIDATION_ERROR",
			"errors":  fieldErrors(err),
		})
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		log.Printf("Error saving uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload content"})
		return
	}

	var description *string
	if form.Description != "" {
		description = &form.Description
	}

	content := models.Content{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       form.Title,
		Description: description,
		Type:        form.Type,
		FileName:    file.Filename,
		FileSize:    fmt.Sprintf("%.1f MB", float64(file.Size)/(1024*1024)),
		FilePath:    "/uploads/" + storedName,
		Views:       "0",
		CreatedAt:   time.Now(),
	}

	if err := h.store.CreateContent(content); err != nil {
		log.Printf("Error creating content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload content"})
		return
	}

	c.JSON(http.StatusOK, content)
}

// ViewContent bumps the view counter of a content item by one. An unknown
// id is ignored: the counter is a best-effort signal, so the endpoint
// still reports success.
func (h *Handler) ViewContent(c *gin.Context) {
	err := h.store.UpdateContentViews(c.Param("id"))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Error updating view count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update view count"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View count updated"})
}

// DeleteContent removes a content record. Deleting an id twice 404s on the
// retry and leaves the collection unchanged.
func (h *Handler) DeleteContent(c *gin.Context) {
	deleted, err := h.store.DeleteContent(c.Param("id"))
	if err != nil {
		log.Printf("Error deleting content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete content"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Content not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}
