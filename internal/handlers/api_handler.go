package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/services"
)

// HealthCheck pings one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type APIHandler struct {
	authService         services.AuthService
	dashboardService    services.DashboardService
	notificationService services.NotificationService
	tutorialService     services.TutorialService
	contactService      services.ContactService
	uploadService       services.UploadService
	fallbackService     services.FallbackService
	healthChecks        []HealthCheck
	maxUploadBytes      int64
}

// APIServices groups the dependencies of APIHandler.
type APIServices struct {
	Auth          services.AuthService
	Dashboard     services.DashboardService
	Notifications services.NotificationService
	Tutorials     services.TutorialService
	Contacts      services.ContactService
	Uploads       services.UploadService
	Fallback      services.FallbackService
	HealthChecks  []HealthCheck
}

const defaultMaxUploadBytes = 32 << 20

func NewAPIHandler(s APIServices) *APIHandler {
	return &APIHandler{
		authService:         s.Auth,
		dashboardService:    s.Dashboard,
		notificationService: s.Notifications,
		tutorialService:     s.Tutorials,
		contactService:      s.Contacts,
		uploadService:       s.Uploads,
		fallbackService:     s.Fallback,
		healthChecks:        s.HealthChecks,
		maxUploadBytes:      defaultMaxUploadBytes,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *APIHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *APIHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *APIHandler) Me(c *gin.Context) {
	session := middleware.Session(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        session.UserID,
			"client_id": session.ClientID,
			"email":     session.Email,
			"name":      session.Name,
		},
		"expires_at": session.ExpiresAt,
	})
}

func (h *APIHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health runs every check concurrently and reports 503 if any of them fails.
func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	results := make([]string, len(h.healthChecks))
	var g errgroup.Group
	for i, check := range h.healthChecks {
		i, check := i, check
		g.Go(func() error {
			if err := check.Check(ctx); err != nil {
				results[i] = err.Error()
				return err
			}
			results[i] = "ok"
			return nil
		})
	}
	err := g.Wait()

	checks := make(gin.H, len(h.healthChecks))
	for i, check := range h.healthChecks {
		checks[check.Name] = results[i]
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
