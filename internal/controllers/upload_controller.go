package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/blob"
	"github.com/propmaint/backend/internal/logger"
)

type UploadController struct {
	store    blob.Store
	maxBytes int64
}

func NewUploadController(store blob.Store, maxBytes int64) *UploadController {
	if maxBytes <= 0 {
		maxBytes = blob.DefaultMaxBytes
	}
	return &UploadController{store: store, maxBytes: maxBytes}
}

// Upload stores the multipart "file" field and returns its public URL.
func (uc *UploadController) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se proporcionó archivo"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := blob.Validate(contentType, header.Size, uc.maxBytes); err != nil {
		msg := "El archivo debe ser una imagen o PDF"
		if errors.Is(err, blob.ErrTooLarge) {
			msg = "El archivo no puede superar 5MB"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo leer el archivo"})
		return
	}
	defer f.Close()

	url, err := uc.store.Put(c.Request.Context(), header.Filename, contentType, f)
	if err != nil {
		logger.WithError(err, "upload_controller").Error("Failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al subir archivo"})
		return
	}
	logger.Info("File uploaded", map[string]interface{}{
		"url":  url,
		"size": header.Size,
	})
	c.JSON(http.StatusOK, gin.H{"url": url})
}
