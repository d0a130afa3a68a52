package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/models"
)

func (h *APIHandler) ListNotifications(c *gin.Context) {
	rules, err := h.notificationService.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rules, "count": len(rules)})
}

func (h *APIHandler) GetNotification(c *gin.Context) {
	rule, err := h.notificationService.Get(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": rule})
}

// CreateNotification also accepts an id in the body, in which case it edits that rule.
func (h *APIHandler) CreateNotification(c *gin.Context) {
	var input models.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	status := http.StatusCreated
	if input.ID != "" {
		status = http.StatusOK
	}
	rule, err := h.notificationService.Save(c.Request.Context(), middleware.Owner(c), input)
	respondWrite(c, status, "notification", rule, err)
}

func (h *APIHandler) UpdateNotification(c *gin.Context) {
	var input models.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	input.ID = c.Param("id")
	rule, err := h.notificationService.Save(c.Request.Context(), middleware.Owner(c), input)
	respondWrite(c, http.StatusOK, "notification", rule, err)
}

func (h *APIHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")
	err := h.notificationService.Delete(c.Request.Context(), middleware.Owner(c), id)
	respondWrite(c, http.StatusOK, "id", id, err)
}

func (h *APIHandler) AddNotificationMessage(c *gin.Context) {
	var msg models.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		bindError(c, err)
		return
	}
	rule, err := h.notificationService.AddMessage(c.Request.Context(), middleware.Owner(c), c.Param("id"), msg)
	respondWrite(c, http.StatusCreated, "notification", rule, err)
}

func (h *APIHandler) RemoveNotificationMessage(c *gin.Context) {
	rule, err := h.notificationService.RemoveMessage(c.Request.Context(), middleware.Owner(c), c.Param("id"), c.Param("message_id"))
	respondWrite(c, http.StatusOK, "notification", rule, err)
}

type MoveMessageRequest struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required,min=0"`
}

// MoveNotificationMessage reorders by zero-based position.
func (h *APIHandler) MoveNotificationMessage(c *gin.Context) {
	var req MoveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rule, err := h.notificationService.MoveMessage(c.Request.Context(), middleware.Owner(c), c.Param("id"), *req.From, *req.To)
	respondWrite(c, http.StatusOK, "notification", rule, err)
}

type SendTestRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *APIHandler) SendTestNotification(c *gin.Context) {
	var req SendTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.notificationService.SendTest(c.Request.Context(), middleware.Owner(c), c.Param("id"), req.Phone); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type WebhookURLQuery struct {
	EventType models.EventType `form:"event_type" binding:"required,wa_event"`
	UserRole  models.UserRole  `form:"user_role" binding:"required,wa_role"`
	Scope     string           `form:"product_scope"`
}

func (h *APIHandler) WebhookURL(c *gin.Context) {
	var q WebhookURLQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	url, err := h.notificationService.WebhookURL(q.EventType, q.UserRole, q.Scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhook_url": url})
}

func (h *APIHandler) ListTutorials(c *gin.Context) {
	tutorials, meta, err := h.tutorialService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tutorials": tutorials, "metadata": meta})
}

func (h *APIHandler) GetTutorial(c *gin.Context) {
	tutorial, err := h.tutorialService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tutorial": tutorial})
}

func (h *APIHandler) CreateTutorial(c *gin.Context) {
	var tutorial models.Tutorial
	if err := c.ShouldBindJSON(&tutorial); err != nil {
		bindError(c, err)
		return
	}
	status := http.StatusCreated
	var (
		saved *models.Tutorial
		err   error
	)
	if tutorial.ID != "" {
		status = http.StatusOK
		saved, err = h.tutorialService.Update(c.Request.Context(), middleware.Owner(c), &tutorial)
	} else {
		saved, err = h.tutorialService.Create(c.Request.Context(), middleware.Owner(c), &tutorial)
	}
	respondWrite(c, status, "tutorial", saved, err)
}

func (h *APIHandler) UpdateTutorial(c *gin.Context) {
	var tutorial models.Tutorial
	if err := c.ShouldBindJSON(&tutorial); err != nil {
		bindError(c, err)
		return
	}
	tutorial.ID = c.Param("id")
	saved, err := h.tutorialService.Update(c.Request.Context(), middleware.Owner(c), &tutorial)
	respondWrite(c, http.StatusOK, "tutorial", saved, err)
}

func (h *APIHandler) DeleteTutorial(c *gin.Context) {
	id := c.Param("id")
	err := h.tutorialService.Delete(c.Request.Context(), middleware.Owner(c), id)
	respondWrite(c, http.StatusOK, "id", id, err)
}

func (h *APIHandler) ListContacts(c *gin.Context) {
	contacts, err := h.contactService.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "count": len(contacts)})
}

type ImportContactsRequest struct {
	Contacts string   `json:"contacts" binding:"required"`
	Tags     []string `json:"tags" binding:"omitempty,dive,max=40"`
}

func (h *APIHandler) ImportContacts(c *gin.Context) {
	var req ImportContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.contactService.Import(c.Request.Context(), middleware.Owner(c), req.Contacts, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if res.Queued > 0 {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

func (h *APIHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")
	err := h.contactService.Delete(c.Request.Context(), middleware.Owner(c), id)
	respondWrite(c, http.StatusOK, "id", id, err)
}
