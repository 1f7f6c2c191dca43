package conversation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
// It mirrors the ordering and not-found semantics of the PostgreSQL
// implementation.
type InMemoryRepository struct {
	mu            sync.RWMutex
	conversations map[uint]*domain.Conversation
	messages      map[uint]*domain.Message
	nextConvID    uint
	nextMsgID     uint
}

// NewInMemoryRepository builds an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[uint]*domain.Conversation),
		messages:      make(map[uint]*domain.Message),
	}
}

var _ domain.Repository = (*InMemoryRepository)(nil)

func notFound(ctx context.Context, message string) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		message,
		nil,
		"",
	)
}

func copyConversation(c *domain.Conversation) *domain.Conversation {
	clone := *c
	if c.Summary != nil {
		summary := *c.Summary
		clone.Summary = &summary
	}
	return &clone
}

func copyMessage(m *domain.Message) *domain.Message {
	clone := *m
	if m.UpdatedBy != nil {
		updatedBy := *m.UpdatedBy
		clone.UpdatedBy = &updatedBy
	}
	return &clone
}

// CreateConversation inserts the conversation record.
func (r *InMemoryRepository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createConversationLocked(conv)
}

func (r *InMemoryRepository) createConversationLocked(conv *domain.Conversation) error {
	r.nextConvID++
	conv.ID = r.nextConvID
	if conv.PublicID == "" {
		conv.PublicID = uuid.NewString()
	}
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	r.conversations[conv.ID] = copyConversation(conv)
	return nil
}

// FindConversation fetches a conversation by owner and name.
func (r *InMemoryRepository) FindConversation(ctx context.Context, userID uint, name string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, conv := range r.conversations {
		if conv.UserID == userID && conv.Name == name {
			return copyConversation(conv), nil
		}
	}
	return nil, notFound(ctx, "conversation not found: "+name)
}

// FindConversationByPublicID fetches a conversation by its public ID.
func (r *InMemoryRepository) FindConversationByPublicID(ctx context.Context, userID uint, publicID string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, conv := range r.conversations {
		if conv.UserID == userID && conv.PublicID == publicID {
			return copyConversation(conv), nil
		}
	}
	return nil, notFound(ctx, "conversation not found: "+publicID)
}

// RenameConversation updates the conversation name in place.
func (r *InMemoryRepository) RenameConversation(ctx context.Context, id uint, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.conversations[id]; ok {
		conv.Name = newName
		conv.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// UpdateSummary stores the conversation summary.
func (r *InMemoryRepository) UpdateSummary(ctx context.Context, id uint, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.conversations[id]; ok {
		conv.Summary = &summary
	}
	return nil
}

// UpdateAttachmentCount overwrites the attachment counter.
func (r *InMemoryRepository) UpdateAttachmentCount(ctx context.Context, id uint, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.conversations[id]; ok {
		conv.AttachmentCount = count
	}
	return nil
}

// TouchConversation refreshes the updated_at column.
func (r *InMemoryRepository) TouchConversation(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.conversations[id]; ok {
		conv.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// DeleteConversation removes a conversation and all its messages.
func (r *InMemoryRepository) DeleteConversation(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for msgID, msg := range r.messages {
		if msg.ConversationID == id {
			delete(r.messages, msgID)
		}
	}
	delete(r.conversations, id)
	return nil
}

// ListConversations returns conversations that have at least one message,
// most recently updated first.
func (r *InMemoryRepository) ListConversations(ctx context.Context, userID uint) ([]*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Conversation
	for _, conv := range r.conversations {
		if conv.UserID == userID && r.messageCountLocked(conv.ID) > 0 {
			result = append(result, copyConversation(conv))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// ListConversationDetails returns conversations with messages plus their
// unread notification counts.
func (r *InMemoryRepository) ListConversationDetails(ctx context.Context, userID uint) ([]domain.DetailRecord, error) {
	convs, err := r.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.DetailRecord, len(convs))
	for i, conv := range convs {
		var count int64
		for _, msg := range r.messages {
			if msg.ConversationID == conv.ID && msg.Notify {
				count++
			}
		}
		result[i] = domain.DetailRecord{Conversation: conv, NotificationCount: count}
	}
	return result, nil
}

func (r *InMemoryRepository) messageCountLocked(conversationID uint) int {
	count := 0
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			count++
		}
	}
	return count
}

// InsertMessage stores a single message.
func (r *InMemoryRepository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertMessageLocked(msg)
	return nil
}

func (r *InMemoryRepository) insertMessageLocked(msg *domain.Message) {
	r.nextMsgID++
	msg.ID = r.nextMsgID
	if msg.PublicID == "" {
		msg.PublicID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.UpdatedAt = time.Now().UTC()
	r.messages[msg.ID] = copyMessage(msg)
}

func (r *InMemoryRepository) sortedMessagesLocked(conversationID uint) []*domain.Message {
	var result []*domain.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			result = append(result, copyMessage(msg))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ListMessages returns messages oldest first, optionally paginated.
func (r *InMemoryRepository) ListMessages(ctx context.Context, conversationID uint, page *domain.Pagination) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedMessagesLocked(conversationID)
	if page == nil {
		return all, nil
	}
	start := page.Offset()
	if start >= len(all) {
		return nil, nil
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// ListMessagesUpTo returns messages with timestamp at or before cutoff.
func (r *InMemoryRepository) ListMessagesUpTo(ctx context.Context, conversationID uint, cutoff time.Time) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Message
	for _, msg := range r.sortedMessagesLocked(conversationID) {
		if !msg.Timestamp.After(cutoff) {
			result = append(result, msg)
		}
	}
	return result, nil
}

// FindMessage fetches a message by its public ID within a conversation.
func (r *InMemoryRepository) FindMessage(ctx context.Context, conversationID uint, publicID string) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID && msg.PublicID == publicID {
			return copyMessage(msg), nil
		}
	}
	return nil, notFound(ctx, "message not found: "+publicID)
}

// FindMessageByContent fetches the oldest message with exactly matching content.
func (r *InMemoryRepository) FindMessageByContent(ctx context.Context, conversationID uint, content string) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, msg := range r.sortedMessagesLocked(conversationID) {
		if msg.Content == content {
			return msg, nil
		}
	}
	return nil, notFound(ctx, "message not found by content")
}

// UpdateMessageContent replaces a message's content.
func (r *InMemoryRepository) UpdateMessageContent(ctx context.Context, id uint, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[id]; ok {
		msg.Content = content
		msg.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// SetMessageFeedback stores the feedback-received flag.
func (r *InMemoryRepository) SetMessageFeedback(ctx context.Context, id uint, received bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[id]; ok {
		msg.FeedbackReceived = received
	}
	return nil
}

// DeleteMessage removes a single message.
func (r *InMemoryRepository) DeleteMessage(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}

// ClearNotifications marks all of a conversation's messages as read.
func (r *InMemoryRepository) ClearNotifications(ctx context.Context, conversationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID {
			msg.Notify = false
		}
	}
	return nil
}

// ListNotifications returns unread messages across the user's
// conversations, newest first.
func (r *InMemoryRepository) ListNotifications(ctx context.Context, userID uint) ([]domain.NotificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.NotificationRecord
	for _, msg := range r.messages {
		if !msg.Notify {
			continue
		}
		conv, ok := r.conversations[msg.ConversationID]
		if !ok || conv.UserID != userID {
			continue
		}
		result = append(result, domain.NotificationRecord{
			Message:              copyMessage(msg),
			ConversationPublicID: conv.PublicID,
			ConversationName:     conv.Name,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Message.Timestamp.Equal(result[j].Message.Timestamp) {
			return result[i].Message.Timestamp.After(result[j].Message.Timestamp)
		}
		return result[i].Message.ID > result[j].Message.ID
	})
	return result, nil
}

// LatestActivity returns the newest activity-tagged message, optionally
// excluding the thinking placeholder.
func (r *InMemoryRepository) LatestActivity(ctx context.Context, conversationID uint, includeThinking bool) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedMessagesLocked(conversationID)
	for i := len(all) - 1; i >= 0; i-- {
		msg := all[i]
		if !strings.HasPrefix(msg.Content, domain.ActivityTag) {
			continue
		}
		if !includeThinking && msg.Content == domain.ThinkingContent {
			continue
		}
		return msg, nil
	}
	return nil, notFound(ctx, "no activity message found")
}

// LatestThinking returns the newest thinking placeholder activity.
func (r *InMemoryRepository) LatestThinking(ctx context.Context, conversationID uint) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedMessagesLocked(conversationID)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Content == domain.ThinkingContent {
			return all[i], nil
		}
	}
	return nil, notFound(ctx, "no thinking activity found")
}

// LatestAgentMessage returns the newest message not authored by the user.
func (r *InMemoryRepository) LatestAgentMessage(ctx context.Context, conversationID uint) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sortedMessagesLocked(conversationID)
	for i := len(all) - 1; i >= 0; i-- {
		if !strings.EqualFold(all[i].Role, domain.RoleUser) {
			return all[i], nil
		}
	}
	return nil, notFound(ctx, "no agent message found")
}

// ForkConversation creates a new conversation and copies the given
// messages into it.
func (r *InMemoryRepository) ForkConversation(ctx context.Context, userID uint, name string, messages []*domain.Message) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv := &domain.Conversation{Name: name, UserID: userID}
	if err := r.createConversationLocked(conv); err != nil {
		return nil, err
	}
	for _, msg := range messages {
		clone := copyMessage(msg)
		clone.ID = 0
		clone.PublicID = ""
		clone.ConversationID = conv.ID
		r.insertMessageLocked(clone)
	}
	return copyConversation(conv), nil
}
