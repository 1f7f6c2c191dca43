package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/prompt"
	"chat-platform/services/conversation-api/internal/infrastructure/auth"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/requests"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/responses"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// PromptHandler exposes HTTP entrypoints for prompt templates.
type PromptHandler struct {
	service prompt.Service
	log     zerolog.Logger
}

// NewPromptHandler constructs the handler.
func NewPromptHandler(service prompt.Service, log zerolog.Logger) *PromptHandler {
	return &PromptHandler{
		service: service,
		log:     log.With().Str("handler", "prompt").Logger(),
	}
}

// Add handles POST /v1/prompts/:category
func (h *PromptHandler) Add(c *gin.Context) {
	var req requests.AddPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Add(c.Request.Context(), auth.UserEmail(c), c.Param("category"), req.Name, req.Content)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
			// Duplicate names surface as a client error, not a conflict.
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "prompt already exists", "")
			return
		}
		responses.HandleError(c, err, "failed to add prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "created", "prompt_name": req.Name})
}

// Get handles GET /v1/prompts/:category/:name
func (h *PromptHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), auth.UserEmail(c), c.Param("category"), c.Param("name"))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prompt_name":     p.Name,
		"prompt_category": p.Category,
		"prompt":          p.Content,
	})
}

// List handles GET /v1/prompts/:category
func (h *PromptHandler) List(c *gin.Context) {
	names, err := h.service.List(c.Request.Context(), auth.UserEmail(c), c.Param("category"))
	if err != nil {
		responses.HandleError(c, err, "failed to list prompts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": names})
}

// ListCategories handles GET /v1/prompts/categories
func (h *PromptHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), auth.UserEmail(c))
	if err != nil {
		responses.HandleError(c, err, "failed to list prompt categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Update handles PUT /v1/prompts/:category/:name
func (h *PromptHandler) Update(c *gin.Context) {
	var req requests.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Update(c.Request.Context(), auth.UserEmail(c), c.Param("category"), c.Param("name"), req.Content)
	if err != nil {
		responses.HandleError(c, err, "failed to update prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Rename handles PATCH /v1/prompts/:category/:name
func (h *PromptHandler) Rename(c *gin.Context) {
	var req requests.RenamePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Rename(c.Request.Context(), auth.UserEmail(c), c.Param("category"), c.Param("name"), req.NewName)
	if err != nil {
		responses.HandleError(c, err, "failed to rename prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "renamed", "prompt_name": req.NewName})
}

// Delete handles DELETE /v1/prompts/:category/:name
func (h *PromptHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), auth.UserEmail(c), c.Param("category"), c.Param("name"))
	if err != nil {
		responses.HandleError(c, err, "failed to delete prompt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Args handles GET /v1/prompts/:category/:name/args
func (h *PromptHandler) Args(c *gin.Context) {
	args, err := h.service.Args(c.Request.Context(), auth.UserEmail(c), c.Param("category"), c.Param("name"))
	if err != nil {
		responses.HandleError(c, err, "failed to extract prompt arguments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt_args": args})
}
