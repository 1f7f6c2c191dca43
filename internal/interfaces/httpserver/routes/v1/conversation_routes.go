package v1

import (
	"github.com/gin-gonic/gin"

	"chat-platform/services/conversation-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRouter, handler *handlers.ConversationHandler) {
	router.GET("/notifications", handler.Notifications)

	group := router.Group("/conversations")
	group.GET("", handler.List)
	group.GET("/detail", handler.ListDetail)
	group.POST("", handler.Create)

	group.GET("/:name", handler.Get)
	group.PUT("/:name", handler.Rename)
	group.DELETE("/:name", handler.Delete)
	group.GET("/:name/export", handler.Export)
	group.POST("/:name/fork", handler.Fork)
	group.POST("/:name/feedback", handler.ToggleFeedback)

	group.POST("/:name/messages", handler.LogInteraction)
	group.GET("/:name/messages/:message_id", handler.GetMessage)
	group.PUT("/:name/messages/:message_id", handler.UpdateMessage)
	group.DELETE("/:name/messages/:message_id", handler.DeleteMessage)

	group.GET("/:name/activities", handler.Activities)
	group.GET("/:name/activities/tree", handler.ActivityTree)
	group.GET("/:name/activities/:activity_id/subactivities", handler.Subactivities)

	group.GET("/:name/summary", handler.GetSummary)
	group.PUT("/:name/summary", handler.SetSummary)

	group.GET("/:name/attachments", handler.GetAttachmentCount)
	group.PUT("/:name/attachments", handler.SetAttachmentCount)
	group.POST("/:name/attachments", handler.IncrementAttachmentCount)
}
