package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-platform/services/conversation-api/internal/domain/conversation"
)

// Message stores each turn of a conversation. Timestamp is set by the
// caller rather than the database so forked copies keep their original
// times.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Role             string    `gorm:"type:varchar(64);not null"`
	Content          string    `gorm:"type:text;not null"`
	ConversationID   uint      `gorm:"index;not null"`
	Timestamp        time.Time `gorm:"index;not null"`
	UpdatedBy        *string   `gorm:"type:varchar(320)"`
	FeedbackReceived bool      `gorm:"not null;default:false"`
	Notify           bool      `gorm:"not null;default:false;index"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns the public id and a timestamp when none was set.
func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.PublicID == "" {
		m.PublicID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

// EtoD converts the database entity to the domain model.
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:               m.ID,
		PublicID:         m.PublicID,
		Role:             m.Role,
		Content:          m.Content,
		ConversationID:   m.ConversationID,
		Timestamp:        m.Timestamp,
		UpdatedAt:        m.UpdatedAt,
		UpdatedBy:        m.UpdatedBy,
		FeedbackReceived: m.FeedbackReceived,
		Notify:           m.Notify,
	}
}

// NewSchemaMessage creates a database entity from the domain model.
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		ID:               m.ID,
		PublicID:         m.PublicID,
		Role:             m.Role,
		Content:          m.Content,
		ConversationID:   m.ConversationID,
		Timestamp:        m.Timestamp,
		UpdatedAt:        m.UpdatedAt,
		UpdatedBy:        m.UpdatedBy,
		FeedbackReceived: m.FeedbackReceived,
		Notify:           m.Notify,
	}
}
