package prompt

import "context"

// Repository exposes data access for Prompt templates.
type Repository interface {
	Create(ctx context.Context, p *Prompt) error
	Find(ctx context.Context, userID uint, category, name string) (*Prompt, error)
	ListNames(ctx context.Context, userID uint, category string) ([]string, error)
	ListCategories(ctx context.Context, userID uint) ([]string, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Rename(ctx context.Context, id uint, newName string) error
	Delete(ctx context.Context, id uint) error
}
