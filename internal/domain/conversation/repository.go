package conversation

import (
	"context"
	"time"
)

// DetailRecord pairs a conversation with its unread notification count.
type DetailRecord struct {
	Conversation      *Conversation
	NotificationCount int64
}

// NotificationRecord pairs an unread message with its parent conversation.
type NotificationRecord struct {
	Message              *Message
	ConversationPublicID string
	ConversationName     string
}

// Repository persists conversations and their messages. Absent records are
// reported with an explicit NotFound error, never a nil dereference.
type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	FindConversation(ctx context.Context, userID uint, name string) (*Conversation, error)
	FindConversationByPublicID(ctx context.Context, userID uint, publicID string) (*Conversation, error)
	RenameConversation(ctx context.Context, id uint, newName string) error
	UpdateSummary(ctx context.Context, id uint, summary string) error
	UpdateAttachmentCount(ctx context.Context, id uint, count int) error
	TouchConversation(ctx context.Context, id uint) error
	// DeleteConversation removes the conversation's messages and then the
	// conversation row, atomically.
	DeleteConversation(ctx context.Context, id uint) error
	// ListConversations returns conversations having at least one message,
	// most recently updated first.
	ListConversations(ctx context.Context, userID uint) ([]*Conversation, error)
	// ListConversationDetails is ListConversations plus each conversation's
	// unread notification count.
	ListConversationDetails(ctx context.Context, userID uint) ([]DetailRecord, error)

	InsertMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID uint, page *Pagination) ([]*Message, error)
	// ListMessagesUpTo returns messages with timestamp at or before cutoff,
	// oldest first, ties broken by insertion order.
	ListMessagesUpTo(ctx context.Context, conversationID uint, cutoff time.Time) ([]*Message, error)
	FindMessage(ctx context.Context, conversationID uint, publicID string) (*Message, error)
	FindMessageByContent(ctx context.Context, conversationID uint, content string) (*Message, error)
	UpdateMessageContent(ctx context.Context, id uint, content string) error
	SetMessageFeedback(ctx context.Context, id uint, received bool) error
	DeleteMessage(ctx context.Context, id uint) error
	// ClearNotifications marks every message of the conversation as read.
	ClearNotifications(ctx context.Context, conversationID uint) error
	// ListNotifications returns unread messages across the user's
	// conversations, newest first.
	ListNotifications(ctx context.Context, userID uint) ([]NotificationRecord, error)

	// LatestActivity returns the newest activity message, optionally
	// excluding the thinking placeholder.
	LatestActivity(ctx context.Context, conversationID uint, includeThinking bool) (*Message, error)
	// LatestThinking returns the newest thinking placeholder activity.
	LatestThinking(ctx context.Context, conversationID uint) (*Message, error)
	// LatestAgentMessage returns the newest message not authored by the user.
	LatestAgentMessage(ctx context.Context, conversationID uint) (*Message, error)

	// ForkConversation creates a new conversation and copies the given
	// messages into it atomically, preserving their timestamps.
	ForkConversation(ctx context.Context, userID uint, name string, messages []*Message) (*Conversation, error)
}
