package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API. requireAuth guards everything except login and
// loginLimit throttles login attempts.
func RegisterRoutes(router gin.IRouter, apiHandler *APIHandler, whatsappHandler *WhatsAppHandler, requireAuth, loginLimit gin.HandlerFunc) {
	router.GET("/healthz", apiHandler.Health)

	api := router.Group("/api")
	api.POST("/auth/login", loginLimit, apiHandler.Login)

	authed := api.Group("", requireAuth)
	{
		authed.POST("/auth/logout", apiHandler.Logout)
		authed.GET("/auth/me", apiHandler.Me)

		authed.GET("/dashboard/stats", apiHandler.DashboardStats)

		authed.GET("/instances", whatsappHandler.ListInstances)
		groups := authed.Group("/instances/:instance/groups")
		{
			groups.GET("", whatsappHandler.ListGroups)
			groups.POST("", whatsappHandler.CreateGroup)
			groups.GET("/:group_id", whatsappHandler.GetGroup)
			groups.PATCH("/:group_id", whatsappHandler.UpdateGroup)
			groups.DELETE("/:group_id", whatsappHandler.DeleteGroup)
			groups.GET("/:group_id/invite-code", whatsappHandler.InviteCode)
			groups.GET("/:group_id/participants", whatsappHandler.ListParticipants)
			groups.POST("/:group_id/participants", whatsappHandler.UpdateParticipants)
			groups.DELETE("/:group_id/participants", whatsappHandler.RemoveAllParticipants)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", apiHandler.ListNotifications)
			notifications.POST("", apiHandler.CreateNotification)
			notifications.GET("/webhook-url", apiHandler.WebhookURL)
			notifications.GET("/:id", apiHandler.GetNotification)
			notifications.PUT("/:id", apiHandler.UpdateNotification)
			notifications.DELETE("/:id", apiHandler.DeleteNotification)
			notifications.POST("/:id/test", apiHandler.SendTestNotification)
			notifications.POST("/:id/messages", apiHandler.AddNotificationMessage)
			notifications.POST("/:id/messages/move", apiHandler.MoveNotificationMessage)
			notifications.DELETE("/:id/messages/:message_id", apiHandler.RemoveNotificationMessage)
		}

		tutorials := authed.Group("/tutorials")
		{
			tutorials.GET("", apiHandler.ListTutorials)
			tutorials.POST("", apiHandler.CreateTutorial)
			tutorials.GET("/:id", apiHandler.GetTutorial)
			tutorials.PUT("/:id", apiHandler.UpdateTutorial)
			tutorials.DELETE("/:id", apiHandler.DeleteTutorial)
		}

		campaigns := authed.Group("/campaigns")
		{
			campaigns.GET("", whatsappHandler.ListCampaigns)
			campaigns.POST("", whatsappHandler.StartCampaign)
			campaigns.GET("/:id", whatsappHandler.GetCampaign)
			campaigns.POST("/:id/cancel", whatsappHandler.CancelCampaign)
		}

		authed.GET("/contacts", apiHandler.ListContacts)
		authed.POST("/contacts", apiHandler.ImportContacts)
		authed.DELETE("/contacts/:id", apiHandler.DeleteContact)

		authed.POST("/uploads", apiHandler.Upload)
		authed.DELETE("/uploads", apiHandler.DeleteUpload)

		authed.GET("/fallback", apiHandler.ListFallback)
		authed.POST("/fallback/sync", apiHandler.SyncFallback)
		authed.DELETE("/fallback", apiHandler.ClearFallback)
	}
}
