package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/internal/services"
	"whatsapp_dashboard/internal/storage"
	"whatsapp_dashboard/pkg/evolution"
	"whatsapp_dashboard/pkg/nocodb"
)

// errorStatus maps service errors to HTTP status codes. Unknown errors are 500.
func errorStatus(err error) int {
	var permErr *services.PermissionError
	var evoErr *evolution.APIError
	var nocoErr *nocodb.APIError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, evolution.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &permErr), errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUserInactive), errors.Is(err, services.ErrSubscriptionExpired):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNoParticipants),
		errors.Is(err, services.ErrInvalidFolder),
		errors.Is(err, models.ErrMessageLimit),
		errors.Is(err, models.ErrMessageMinimum),
		errors.Is(err, models.ErrMessageIndex):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoWebhookRoute):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, storage.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, queue.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &evoErr), errors.As(err, &nocoErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		body["error"] = "Internal server error"
	}
	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		body["participants"] = permErr.Participants
	}
	c.JSON(status, body)
}

// respondWrite reports a write. A write parked in the fallback queue is 202 with the
// submitted data so the dashboard can keep showing it.
func respondWrite(c *gin.Context, status int, key string, data any, err error) {
	if errors.Is(err, services.ErrStoredLocally) {
		c.JSON(http.StatusAccepted, gin.H{
			key:       data,
			"queued":  true,
			"message": "NocoDB unavailable, change stored locally and will be synced",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{key: data})
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}
