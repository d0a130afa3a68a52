package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/models"
)

func (h *APIHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	folder := c.PostForm("folder")

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	obj, err := h.uploadService.Upload(c.Request.Context(), folder, header.Filename, contentType, header.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": obj})
}

func (h *APIHandler) DeleteUpload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key"})
		return
	}
	if err := h.uploadService.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

// ListFallback returns the caller's queued writes; pending=true limits it to the ones
// still waiting for replay.
func (h *APIHandler) ListFallback(c *gin.Context) {
	list := h.fallbackService.All
	if c.Query("pending") == "true" {
		list = h.fallbackService.Pending
	}
	entries, err := list(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	pending := lo.CountBy(entries, models.FallbackEntry.Pending)
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries), "pending": pending})
}

func (h *APIHandler) SyncFallback(c *gin.Context) {
	report, err := h.fallbackService.Sync(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *APIHandler) ClearFallback(c *gin.Context) {
	n, err := h.fallbackService.ClearAll(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
