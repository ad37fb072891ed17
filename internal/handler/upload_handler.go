package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estatehub/backend-go/internal/database/service"
)

// Form fields accepted for photo uploads, in lookup order
var uploadFields = []string{"photos", "files"}

// UploadHandler handles listing photo uploads
type UploadHandler struct {
	service service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger,
	}
}

// Upload handles POST /properties/upload and returns {"urls": [...]} in submission order
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("⚠️ [UploadHandler] Invalid multipart form", "user_id", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	var files []*multipart.FileHeader
	for _, field := range uploadFields {
		if files = form.File[field]; len(files) > 0 {
			break
		}
	}

	h.logger.Info("📤 [UploadHandler] Upload request received", "user_id", userID, "files", len(files))

	urls, err := h.service.SavePhotos(c.Request.Context(), files)
	if err != nil {
		if errors.Is(err, service.ErrNoFiles) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
			return
		}
		h.logger.Error("❌ [UploadHandler] Upload failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"urls": urls})
}
