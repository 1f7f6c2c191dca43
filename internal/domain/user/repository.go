package user

import "context"

// Repository exposes data access for User records.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Create(ctx context.Context, usr *User) error
	// GetOrCreateByEmail provisions a user row on first sight of an email.
	GetOrCreateByEmail(ctx context.Context, email string) (*User, error)
}
