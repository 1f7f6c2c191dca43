package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chat-platform/services/conversation-api/internal/domain/user"
)

// User represents the database schema for account owners.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email    string `gorm:"type:varchar(320);uniqueIndex;not null"`
	Timezone string `gorm:"type:varchar(64);not null;default:'UTC'"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the public id.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.PublicID == "" {
		u.PublicID = uuid.NewString()
	}
	return nil
}

// EtoD converts the database entity to the domain model.
func (u *User) EtoD() *user.User {
	return &user.User{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Email:     u.Email,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewSchemaUser creates a database entity from the domain model.
func NewSchemaUser(u *user.User) *User {
	return &User{
		ID:        u.ID,
		PublicID:  u.PublicID,
		Email:     u.Email,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
