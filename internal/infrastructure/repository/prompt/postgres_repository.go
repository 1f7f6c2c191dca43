package prompt

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "chat-platform/services/conversation-api/internal/domain/prompt"
	"chat-platform/services/conversation-api/internal/infrastructure/database/entities"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// Repository persists prompt templates via PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a prompt repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// Create inserts a prompt template.
func (r *Repository) Create(ctx context.Context, p *domain.Prompt) error {
	entity := entities.NewSchemaPrompt(p)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create prompt",
			err,
			"create-prompt-error",
		)
	}
	p.ID = entity.ID
	p.PublicID = entity.PublicID
	p.CreatedAt = entity.CreatedAt
	p.UpdatedAt = entity.UpdatedAt
	return nil
}

// Find fetches a prompt by owner, category and name.
func (r *Repository) Find(ctx context.Context, userID uint, category, name string) (*domain.Prompt, error) {
	var entity entities.Prompt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ? AND name = ?", userID, category, name).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("prompt not found: %s/%s", category, name),
				nil,
				"find-prompt-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch prompt",
			err,
			"find-prompt-error",
		)
	}
	return entity.EtoD(), nil
}

// ListNames returns prompt names within a category, alphabetically.
func (r *Repository) ListNames(ctx context.Context, userID uint, category string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&entities.Prompt{}).
		Where("user_id = ? AND category = ?", userID, category).
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list prompt names",
			err,
			"list-prompt-names-error",
		)
	}
	return names, nil
}

// ListCategories returns the user's distinct prompt categories, alphabetically.
func (r *Repository) ListCategories(ctx context.Context, userID uint) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entities.Prompt{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list prompt categories",
			err,
			"list-prompt-categories-error",
		)
	}
	return categories, nil
}

// UpdateContent replaces a prompt's template text.
func (r *Repository) UpdateContent(ctx context.Context, id uint, content string) error {
	return r.updateColumn(ctx, id, "content", content, "update-prompt-content-error")
}

// Rename changes a prompt's name within its category.
func (r *Repository) Rename(ctx context.Context, id uint, newName string) error {
	return r.updateColumn(ctx, id, "name", newName, "rename-prompt-error")
}

func (r *Repository) updateColumn(ctx context.Context, id uint, column string, value any, code string) error {
	if err := r.db.WithContext(ctx).Model(&entities.Prompt{}).
		Where("id = ?", id).
		Update(column, value).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			fmt.Sprintf("failed to update prompt %s", column),
			err,
			code,
		)
	}
	return nil
}

// Delete removes a prompt row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Prompt{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete prompt",
			err,
			"delete-prompt-error",
		)
	}
	return nil
}
