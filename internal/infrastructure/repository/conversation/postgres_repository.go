package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/infrastructure/database/entities"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// Repository persists conversations and messages via PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// CreateConversation inserts the conversation record.
func (r *Repository) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"create-conversation-error",
		)
	}
	conv.ID = entity.ID
	conv.PublicID = entity.PublicID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindConversation fetches a conversation by owner and name.
func (r *Repository) FindConversation(ctx context.Context, userID uint, name string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", name),
				nil,
				"find-conversation-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"find-conversation-error",
		)
	}
	return entity.EtoD(), nil
}

// FindConversationByPublicID fetches a conversation by its public ID.
func (r *Repository) FindConversationByPublicID(ctx context.Context, userID uint, publicID string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND public_id = ?", userID, publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"find-conversation-by-id-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"find-conversation-by-id-error",
		)
	}
	return entity.EtoD(), nil
}

// RenameConversation updates the conversation name in place.
func (r *Repository) RenameConversation(ctx context.Context, id uint, newName string) error {
	return r.updateConversationColumn(ctx, id, "name", newName, "rename-conversation-error")
}

// UpdateSummary stores the conversation summary.
func (r *Repository) UpdateSummary(ctx context.Context, id uint, summary string) error {
	return r.updateConversationColumn(ctx, id, "summary", summary, "update-summary-error")
}

// UpdateAttachmentCount overwrites the attachment counter.
func (r *Repository) UpdateAttachmentCount(ctx context.Context, id uint, count int) error {
	return r.updateConversationColumn(ctx, id, "attachment_count", count, "update-attachment-count-error")
}

// TouchConversation refreshes the updated_at column.
func (r *Repository) TouchConversation(ctx context.Context, id uint) error {
	return r.updateConversationColumn(ctx, id, "updated_at", gorm.Expr("NOW()"), "touch-conversation-error")
}

func (r *Repository) updateConversationColumn(ctx context.Context, id uint, column string, value any, code string) error {
	if err := r.db.WithContext(ctx).Model(&entities.Conversation{}).
		Where("id = ?", id).
		Update(column, value).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			fmt.Sprintf("failed to update conversation %s", column),
			err,
			code,
		)
	}
	return nil
}

// DeleteConversation removes the conversation's messages and then the
// conversation row inside one transaction.
func (r *Repository) DeleteConversation(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&entities.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Conversation{}, id).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			err,
			"delete-conversation-error",
		)
	}
	return nil
}

// ListConversations returns conversations that have at least one message,
// most recently updated first.
func (r *Repository) ListConversations(ctx context.Context, userID uint) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Joins("JOIN messages ON messages.conversation_id = conversations.id").
		Where("conversations.user_id = ?", userID).
		Group("conversations.id").
		Order("conversations.updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"list-conversations-error",
		)
	}
	result := make([]*domain.Conversation, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

type detailRow struct {
	ID                uint
	PublicID          string
	Name              string
	Summary           *string
	AttachmentCount   int
	CreatedAt         time.Time
	UpdatedAt         time.Time
	NotificationCount int64
}

// ListConversationDetails returns conversations with messages plus their
// unread notification counts, most recently updated first.
func (r *Repository) ListConversationDetails(ctx context.Context, userID uint) ([]domain.DetailRecord, error) {
	var rows []detailRow
	err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Select("conversations.id, conversations.public_id, conversations.name, conversations.summary, " +
			"conversations.attachment_count, conversations.created_at, conversations.updated_at, " +
			"COUNT(messages.id) FILTER (WHERE messages.notify) AS notification_count").
		Joins("JOIN messages ON messages.conversation_id = conversations.id").
		Where("conversations.user_id = ?", userID).
		Group("conversations.id").
		Order("conversations.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversation details",
			err,
			"list-conversation-details-error",
		)
	}
	result := make([]domain.DetailRecord, len(rows))
	for i, row := range rows {
		result[i] = domain.DetailRecord{
			Conversation: &domain.Conversation{
				ID:              row.ID,
				PublicID:        row.PublicID,
				Name:            row.Name,
				UserID:          userID,
				Summary:         row.Summary,
				AttachmentCount: row.AttachmentCount,
				CreatedAt:       row.CreatedAt,
				UpdatedAt:       row.UpdatedAt,
			},
			NotificationCount: row.NotificationCount,
		}
	}
	return result, nil
}

// InsertMessage stores a single message.
func (r *Repository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert message",
			err,
			"insert-message-error",
		)
	}
	msg.ID = entity.ID
	msg.PublicID = entity.PublicID
	msg.Timestamp = entity.Timestamp
	msg.UpdatedAt = entity.UpdatedAt
	return nil
}

// ListMessages returns messages oldest first, optionally paginated.
func (r *Repository) ListMessages(ctx context.Context, conversationID uint, page *domain.Pagination) ([]*domain.Message, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, id ASC")
	if page != nil {
		query = query.Offset(page.Offset()).Limit(page.Limit)
	}
	var rows []entities.Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"list-messages-error",
		)
	}
	result := make([]*domain.Message, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// ListMessagesUpTo returns messages with timestamp at or before cutoff,
// oldest first with insertion order breaking ties.
func (r *Repository) ListMessagesUpTo(ctx context.Context, conversationID uint, cutoff time.Time) ([]*domain.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND timestamp <= ?", conversationID, cutoff).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages up to cutoff",
			err,
			"list-messages-up-to-error",
		)
	}
	result := make([]*domain.Message, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// FindMessage fetches a message by its public ID within a conversation.
func (r *Repository) FindMessage(ctx context.Context, conversationID uint, publicID string) (*domain.Message, error) {
	var entity entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND public_id = ?", conversationID, publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("message not found: %s", publicID),
				nil,
				"find-message-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch message",
			err,
			"find-message-error",
		)
	}
	return entity.EtoD(), nil
}

// FindMessageByContent fetches the first message with exactly matching content.
func (r *Repository) FindMessageByContent(ctx context.Context, conversationID uint, content string) (*domain.Message, error) {
	var entity entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND content = ?", conversationID, content).
		Order("timestamp ASC, id ASC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"message not found by content",
				nil,
				"find-message-by-content-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch message by content",
			err,
			"find-message-by-content-error",
		)
	}
	return entity.EtoD(), nil
}

// UpdateMessageContent replaces a message's content.
func (r *Repository) UpdateMessageContent(ctx context.Context, id uint, content string) error {
	if err := r.db.WithContext(ctx).Model(&entities.Message{}).
		Where("id = ?", id).
		Update("content", content).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update message content",
			err,
			"update-message-content-error",
		)
	}
	return nil
}

// SetMessageFeedback stores the feedback-received flag.
func (r *Repository) SetMessageFeedback(ctx context.Context, id uint, received bool) error {
	if err := r.db.WithContext(ctx).Model(&entities.Message{}).
		Where("id = ?", id).
		Update("feedback_received", received).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to set message feedback",
			err,
			"set-message-feedback-error",
		)
	}
	return nil
}

// DeleteMessage removes a single message row.
func (r *Repository) DeleteMessage(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Message{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete message",
			err,
			"delete-message-error",
		)
	}
	return nil
}

// ClearNotifications marks all of a conversation's messages as read.
func (r *Repository) ClearNotifications(ctx context.Context, conversationID uint) error {
	if err := r.db.WithContext(ctx).Model(&entities.Message{}).
		Where("conversation_id = ? AND notify = ?", conversationID, true).
		Update("notify", false).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to clear notifications",
			err,
			"clear-notifications-error",
		)
	}
	return nil
}

type notificationRow struct {
	entities.Message
	ConversationPublicID string
	ConversationName     string
}

// ListNotifications returns unread messages across the user's
// conversations, newest first.
func (r *Repository) ListNotifications(ctx context.Context, userID uint) ([]domain.NotificationRecord, error) {
	var rows []notificationRow
	err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Select("messages.*, conversations.public_id AS conversation_public_id, conversations.name AS conversation_name").
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ? AND messages.notify = ?", userID, true).
		Order("messages.timestamp DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list notifications",
			err,
			"list-notifications-error",
		)
	}
	result := make([]domain.NotificationRecord, len(rows))
	for i := range rows {
		result[i] = domain.NotificationRecord{
			Message:              rows[i].Message.EtoD(),
			ConversationPublicID: rows[i].ConversationPublicID,
			ConversationName:     rows[i].ConversationName,
		}
	}
	return result, nil
}

// LatestActivity returns the newest activity-tagged message, optionally
// excluding the thinking placeholder.
func (r *Repository) LatestActivity(ctx context.Context, conversationID uint, includeThinking bool) (*domain.Message, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Where("content LIKE ?", domain.ActivityTag+"%")
	if !includeThinking {
		query = query.Where("content <> ?", domain.ThinkingContent)
	}
	var entity entities.Message
	err := query.Order("timestamp DESC, id DESC").First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"no activity message found",
				nil,
				"latest-activity-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch latest activity",
			err,
			"latest-activity-error",
		)
	}
	return entity.EtoD(), nil
}

// LatestThinking returns the newest thinking placeholder activity.
func (r *Repository) LatestThinking(ctx context.Context, conversationID uint) (*domain.Message, error) {
	var entity entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND content = ?", conversationID, domain.ThinkingContent).
		Order("timestamp DESC, id DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"no thinking activity found",
				nil,
				"latest-thinking-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch latest thinking activity",
			err,
			"latest-thinking-error",
		)
	}
	return entity.EtoD(), nil
}

// LatestAgentMessage returns the newest message not authored by the user.
func (r *Repository) LatestAgentMessage(ctx context.Context, conversationID uint) (*domain.Message, error) {
	var entity entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND UPPER(role) <> ?", conversationID, domain.RoleUser).
		Order("timestamp DESC, id DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"no agent message found",
				nil,
				"latest-agent-message-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch latest agent message",
			err,
			"latest-agent-message-error",
		)
	}
	return entity.EtoD(), nil
}

// ForkConversation creates a new conversation and copies the given messages
// into it inside one transaction.
func (r *Repository) ForkConversation(ctx context.Context, userID uint, name string, messages []*domain.Message) (*domain.Conversation, error) {
	conv := &entities.Conversation{Name: name, UserID: userID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}
		rows := make([]entities.Message, 0, len(messages))
		for _, msg := range messages {
			row := entities.NewSchemaMessage(msg)
			row.ID = 0
			row.PublicID = ""
			row.ConversationID = conv.ID
			rows = append(rows, *row)
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fork conversation",
			err,
			"fork-conversation-error",
		)
	}
	return conv.EtoD(), nil
}
