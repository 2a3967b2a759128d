package storage

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxFilenameLength = 255

// Image types the upload endpoint accepts.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Handler exposes presigned image upload/download URLs over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates an image storage handler. service may be nil when
// storage is unconfigured.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// UploadURLRequest is the request payload for an upload URL.
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse carries the presigned upload URL.
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	ExpiresAt int64  `json:"expires_at"`
}

// DownloadURLResponse carries the presigned download URL.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   int64  `json:"expires_at"`
}

// RegisterRoutes mounts the image endpoints on the router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload-url", h.UploadURL)
	r.GET("/:key/download-url", h.DownloadURL)
	r.DELETE("/:key", h.Delete)
}

// UploadURL handles POST /images/upload-url.
func (h *Handler) UploadURL(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not available"})
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateFilename(req.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowedContentTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("content type %s is not allowed", req.ContentType)})
		return
	}

	fileKey := fmt.Sprintf("%s-%s", uuid.New().String(), req.Filename)
	ttl := 15 * time.Minute

	url, err := h.service.PresignUpload(c.Request.Context(), fileKey, req.ContentType, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{
		UploadURL: url,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
}

// DownloadURL handles GET /images/:key/download-url.
func (h *Handler) DownloadURL(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not available"})
		return
	}

	key := c.Param("key")
	ttl := 1 * time.Hour

	url, err := h.service.PresignDownload(c.Request.Context(), key, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{
		DownloadURL: url,
		ExpiresAt:   time.Now().Add(ttl).Unix(),
	})
}

// Delete handles DELETE /images/:key.
func (h *Handler) Delete(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not available"})
		return
	}

	key := c.Param("key")
	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file_key": key})
}

func validateFilename(filename string) error {
	if len(filename) > maxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", maxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}
