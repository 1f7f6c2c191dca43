package handlers

import (
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/domain/prompt"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Prompt       *PromptHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(conversationService *conversation.Service, promptService prompt.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversationService, log),
		Prompt:       NewPromptHandler(promptService, log),
	}
}
