package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-platform/services/conversation-api/internal/domain/prompt"
)

// Prompt models a stored prompt template. Name is unique within a
// (user, category) pair.
type Prompt struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(256);uniqueIndex:idx_prompt_user_category_name;not null"`
	Category string `gorm:"type:varchar(128);uniqueIndex:idx_prompt_user_category_name;not null;default:'Default'"`
	Content  string `gorm:"type:text;not null"`
	UserID   uint   `gorm:"uniqueIndex:idx_prompt_user_category_name;not null"`
}

// TableName specifies the table name for Prompt.
func (Prompt) TableName() string {
	return "prompts"
}

// BeforeCreate assigns the public id.
func (p *Prompt) BeforeCreate(*gorm.DB) error {
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
	}
	return nil
}

// EtoD converts the database entity to the domain model.
func (p *Prompt) EtoD() *prompt.Prompt {
	return &prompt.Prompt{
		ID:        p.ID,
		PublicID:  p.PublicID,
		Name:      p.Name,
		Category:  p.Category,
		Content:   p.Content,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewSchemaPrompt creates a database entity from the domain model.
func NewSchemaPrompt(p *prompt.Prompt) *Prompt {
	return &Prompt{
		ID:        p.ID,
		PublicID:  p.PublicID,
		Name:      p.Name,
		Category:  p.Category,
		Content:   p.Content,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
