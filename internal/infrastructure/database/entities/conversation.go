package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-platform/services/conversation-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversation threads.
// The (user_id, name) pair is unique so concurrent creators cannot race to
// duplicate a conversation.
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`

	PublicID        string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name            string  `gorm:"type:varchar(256);uniqueIndex:idx_conversation_user_name;not null"`
	UserID          uint    `gorm:"uniqueIndex:idx_conversation_user_name;not null"`
	Summary         *string `gorm:"type:text"`
	AttachmentCount int     `gorm:"not null;default:0"`

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate assigns the public id.
func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = uuid.NewString()
	}
	return nil
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:              c.ID,
		PublicID:        c.PublicID,
		Name:            c.Name,
		UserID:          c.UserID,
		Summary:         c.Summary,
		AttachmentCount: c.AttachmentCount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// NewSchemaConversation creates a database entity from the domain model.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:              c.ID,
		PublicID:        c.PublicID,
		Name:            c.Name,
		UserID:          c.UserID,
		Summary:         c.Summary,
		AttachmentCount: c.AttachmentCount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
