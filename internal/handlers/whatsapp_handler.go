package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/services"
)

// WhatsAppHandler serves everything that goes through the WhatsApp gateway.
type WhatsAppHandler struct {
	instanceService services.InstanceService
	groupService    services.GroupService
	campaignService services.CampaignService
}

func NewWhatsAppHandler(
	instanceService services.InstanceService,
	groupService services.GroupService,
	campaignService services.CampaignService,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		instanceService: instanceService,
		groupService:    groupService,
		campaignService: campaignService,
	}
}

func (h *WhatsAppHandler) ListInstances(c *gin.Context) {
	instances, err := h.instanceService.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instances": instances, "count": len(instances)})
}

func (h *WhatsAppHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context(), middleware.Owner(c), c.Param("instance"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *WhatsAppHandler) GetGroup(c *gin.Context) {
	group, err := h.groupService.Get(c.Request.Context(), middleware.Owner(c), c.Param("instance"), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

type CreateGroupRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description" binding:"max=2048"`
	Participants string `json:"participants" binding:"required"`
}

func (h *WhatsAppHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), middleware.Owner(c), c.Param("instance"), req.Name, req.Description, req.Participants)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *WhatsAppHandler) UpdateGroup(c *gin.Context) {
	var update models.GroupUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	groupID := c.Param("group_id")
	if err := h.groupService.Update(c.Request.Context(), middleware.Owner(c), c.Param("instance"), groupID, update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "id": groupID})
}

// DeleteGroup makes the instance leave the group; WhatsApp has no group deletion.
func (h *WhatsAppHandler) DeleteGroup(c *gin.Context) {
	groupID := c.Param("group_id")
	if err := h.groupService.Delete(c.Request.Context(), middleware.Owner(c), c.Param("instance"), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "left", "id": groupID})
}

func (h *WhatsAppHandler) InviteCode(c *gin.Context) {
	url, err := h.groupService.InviteCode(c.Request.Context(), middleware.Owner(c), c.Param("instance"), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invite_url": url})
}

func (h *WhatsAppHandler) ListParticipants(c *gin.Context) {
	participants, err := h.groupService.Participants(c.Request.Context(), middleware.Owner(c), c.Param("instance"), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants, "count": len(participants)})
}

type ParticipantsRequest struct {
	Action       models.ParticipantAction `json:"action" binding:"required,oneof=add remove promote demote"`
	Participants string                   `json:"participants" binding:"required"`
}

func (h *WhatsAppHandler) UpdateParticipants(c *gin.Context) {
	var req ParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	applied, err := h.groupService.ApplyParticipantAction(
		c.Request.Context(), middleware.Owner(c), c.Param("instance"), c.Param("group_id"), req.Action, req.Participants,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": req.Action, "participants": applied, "count": len(applied)})
}

// RemoveAllParticipants keeps super-admins in the group.
func (h *WhatsAppHandler) RemoveAllParticipants(c *gin.Context) {
	n, err := h.groupService.RemoveAllParticipants(c.Request.Context(), middleware.Owner(c), c.Param("instance"), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (h *WhatsAppHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns, "count": len(campaigns)})
}

func (h *WhatsAppHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.Get(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

func (h *WhatsAppHandler) StartCampaign(c *gin.Context) {
	var input models.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	// a queued campaign log still sends, so it is reported like any other accepted start
	campaign, err := h.campaignService.Start(c.Request.Context(), middleware.Owner(c), input)
	respondWrite(c, http.StatusAccepted, "campaign", campaign, err)
}

func (h *WhatsAppHandler) CancelCampaign(c *gin.Context) {
	campaign, err := h.campaignService.Cancel(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}
