package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/infrastructure/auth"
	"chat-platform/services/conversation-api/internal/infrastructure/metrics"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/requests"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/responses"
)

// ConversationHandler exposes HTTP entrypoints for conversation history.
type ConversationHandler struct {
	service *conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service *conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

func (h *ConversationHandler) store(c *gin.Context) *conversation.Store {
	return h.service.Open(auth.UserEmail(c), c.Param("name"))
}

func pagination(c *gin.Context) conversation.Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}
	return conversation.Pagination{Page: page, Limit: limit}
}

// List handles GET /v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	st := h.service.Open(auth.UserEmail(c), "")
	names, err := st.ListConversations(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}
	ids, err := st.ListConversationsWithIDs(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": names, "conversations_with_ids": ids})
}

// ListDetail handles GET /v1/conversations/detail
func (h *ConversationHandler) ListDetail(c *gin.Context) {
	st := h.service.Open(auth.UserEmail(c), "")
	details, err := st.ListConversationsWithDetail(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list conversation details")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": details})
}

// Create handles POST /v1/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := make([]conversation.Interaction, 0, len(req.Interactions))
	for _, interaction := range req.Interactions {
		seed = append(seed, conversation.Interaction{
			Role:    interaction.Role,
			Message: interaction.Message,
		})
	}

	st := h.service.Open(auth.UserEmail(c), req.Name)
	conv, err := st.NewConversation(c.Request.Context(), seed)
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}
	metrics.RecordConversationEvent(metrics.ConversationEventCreated)
	c.JSON(http.StatusOK, gin.H{"conversation_id": conv.PublicID, "conversation_name": conv.Name})
}

// Get handles GET /v1/conversations/:name
func (h *ConversationHandler) Get(c *gin.Context) {
	history, err := h.store(c).GetConversation(c.Request.Context(), pagination(c))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch conversation")
		return
	}
	c.JSON(http.StatusOK, history)
}

// Export handles GET /v1/conversations/:name/export
func (h *ConversationHandler) Export(c *gin.Context) {
	history, err := h.store(c).Export(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to export conversation")
		return
	}
	c.JSON(http.StatusOK, history)
}

// LogInteraction handles POST /v1/conversations/:name/messages
func (h *ConversationHandler) LogInteraction(c *gin.Context) {
	var req requests.LogInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := h.store(c).LogInteraction(c.Request.Context(), req.Role, req.Message)
	if err != nil {
		responses.HandleError(c, err, "failed to log interaction")
		return
	}
	metrics.RecordInteraction(interactionKind(req.Message))
	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}

func interactionKind(message string) string {
	switch {
	case conversation.IsSubactivity(message):
		return metrics.InteractionKindSubactivity
	case conversation.IsActivity(message):
		return metrics.InteractionKindActivity
	default:
		return metrics.InteractionKindMessage
	}
}

// Rename handles PUT /v1/conversations/:name
func (h *ConversationHandler) Rename(c *gin.Context) {
	var req requests.RenameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newName, err := h.store(c).RenameConversation(c.Request.Context(), req.NewName)
	if err != nil {
		responses.HandleError(c, err, "failed to rename conversation")
		return
	}
	metrics.RecordConversationEvent(metrics.ConversationEventRenamed)
	c.JSON(http.StatusOK, gin.H{"conversation_name": newName})
}

// Delete handles DELETE /v1/conversations/:name
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.store(c).DeleteConversation(c.Request.Context()); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	metrics.RecordConversationEvent(metrics.ConversationEventDeleted)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Fork handles POST /v1/conversations/:name/fork
func (h *ConversationHandler) Fork(c *gin.Context) {
	var req requests.ForkConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newName, err := h.store(c).Fork(c.Request.Context(), req.MessageID)
	if err != nil {
		responses.HandleError(c, err, "failed to fork conversation")
		return
	}
	metrics.RecordConversationEvent(metrics.ConversationEventForked)
	c.JSON(http.StatusOK, gin.H{"conversation_name": newName})
}

// Notifications handles GET /v1/notifications
func (h *ConversationHandler) Notifications(c *gin.Context) {
	st := h.service.Open(auth.UserEmail(c), "")
	notifications, err := st.GetNotifications(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// Activities handles GET /v1/conversations/:name/activities
func (h *ConversationHandler) Activities(c *gin.Context) {
	activities, err := h.store(c).GetActivities(c.Request.Context(), pagination(c))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch activities")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// ActivityTree handles GET /v1/conversations/:name/activities/tree
func (h *ConversationHandler) ActivityTree(c *gin.Context) {
	rendered, err := h.store(c).GetActivitiesWithSubactivities(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to fetch activity tree")
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": rendered})
}

// Subactivities handles GET /v1/conversations/:name/activities/:activity_id/subactivities
func (h *ConversationHandler) Subactivities(c *gin.Context) {
	rendered, err := h.store(c).GetSubactivities(c.Request.Context(), c.Param("activity_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch subactivities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subactivities": rendered})
}

// GetMessage handles GET /v1/conversations/:name/messages/:message_id
func (h *ConversationHandler) GetMessage(c *gin.Context) {
	content, err := h.store(c).MessageByID(c.Request.Context(), c.Param("message_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": content})
}

// UpdateMessage handles PUT /v1/conversations/:name/messages/:message_id
func (h *ConversationHandler) UpdateMessage(c *gin.Context) {
	var req requests.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store(c).UpdateMessageByID(c.Request.Context(), c.Param("message_id"), req.NewContent); err != nil {
		responses.HandleError(c, err, "failed to update message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteMessage handles DELETE /v1/conversations/:name/messages/:message_id
func (h *ConversationHandler) DeleteMessage(c *gin.Context) {
	if err := h.store(c).DeleteMessageByID(c.Request.Context(), c.Param("message_id")); err != nil {
		responses.HandleError(c, err, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ToggleFeedback handles POST /v1/conversations/:name/feedback
func (h *ConversationHandler) ToggleFeedback(c *gin.Context) {
	var req requests.ToggleFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := h.store(c)
	if err := st.ToggleFeedbackReceived(c.Request.Context(), req.Content); err != nil {
		responses.HandleError(c, err, "failed to toggle feedback")
		return
	}
	received, err := st.HasReceivedFeedback(c.Request.Context(), req.Content)
	if err != nil {
		responses.HandleError(c, err, "failed to read feedback state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback_received": received})
}

// GetSummary handles GET /v1/conversations/:name/summary
func (h *ConversationHandler) GetSummary(c *gin.Context) {
	summary, err := h.store(c).Summary(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to fetch summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SetSummary handles PUT /v1/conversations/:name/summary
func (h *ConversationHandler) SetSummary(c *gin.Context) {
	var req requests.SetSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.store(c).SetSummary(c.Request.Context(), req.Summary)
	if err != nil {
		responses.HandleError(c, err, "failed to set summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetAttachmentCount handles GET /v1/conversations/:name/attachments
func (h *ConversationHandler) GetAttachmentCount(c *gin.Context) {
	count, err := h.store(c).AttachmentCount(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to fetch attachment count")
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachment_count": count})
}

// SetAttachmentCount handles PUT /v1/conversations/:name/attachments
func (h *ConversationHandler) SetAttachmentCount(c *gin.Context) {
	var req requests.SetAttachmentCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.store(c).UpdateAttachmentCount(c.Request.Context(), req.Count)
	if err != nil {
		responses.HandleError(c, err, "failed to update attachment count")
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachment_count": count})
}

// IncrementAttachmentCount handles POST /v1/conversations/:name/attachments
func (h *ConversationHandler) IncrementAttachmentCount(c *gin.Context) {
	count, err := h.store(c).IncrementAttachmentCount(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to increment attachment count")
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachment_count": count})
}
