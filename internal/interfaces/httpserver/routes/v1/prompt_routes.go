package v1

import (
	"github.com/gin-gonic/gin"

	"chat-platform/services/conversation-api/internal/interfaces/httpserver/handlers"
)

func registerPromptRoutes(router gin.IRouter, handler *handlers.PromptHandler) {
	group := router.Group("/prompts")
	group.GET("/categories", handler.ListCategories)

	group.POST("/:category", handler.Add)
	group.GET("/:category", handler.List)
	group.GET("/:category/:name", handler.Get)
	group.GET("/:category/:name/args", handler.Args)
	group.PUT("/:category/:name", handler.Update)
	group.PATCH("/:category/:name", handler.Rename)
	group.DELETE("/:category/:name", handler.Delete)
}
