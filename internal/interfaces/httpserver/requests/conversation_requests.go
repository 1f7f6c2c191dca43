package requests

// InteractionSeed is one seeded message in a conversation create request.
type InteractionSeed struct {
	Role    string `json:"role" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateConversationRequest creates a conversation with optional seed messages.
type CreateConversationRequest struct {
	Name         string            `json:"name"`
	Interactions []InteractionSeed `json:"interactions"`
}

// LogInteractionRequest appends one message to a conversation.
type LogInteractionRequest struct {
	Role    string `json:"role" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// RenameConversationRequest renames a conversation.
type RenameConversationRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// ForkConversationRequest forks a conversation at a message boundary.
type ForkConversationRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

// UpdateMessageRequest replaces a message's content.
type UpdateMessageRequest struct {
	NewContent string `json:"new_content" binding:"required"`
}

// ToggleFeedbackRequest flips the feedback flag of a content-matched message.
type ToggleFeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

// SetSummaryRequest stores a conversation summary.
type SetSummaryRequest struct {
	Summary string `json:"summary" binding:"required"`
}

// SetAttachmentCountRequest overwrites the attachment counter.
type SetAttachmentCountRequest struct {
	Count int `json:"count" binding:"min=0"`
}
