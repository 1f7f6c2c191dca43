package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "chat-platform/services/conversation-api/internal/domain/user"
	"chat-platform/services/conversation-api/internal/infrastructure/database/entities"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// Repository persists users via PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ domain.Repository = (*Repository)(nil)

// FindByEmail fetches a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("user not found: %s", email),
				nil,
				"find-user-by-email-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch user by email",
			err,
			"find-user-by-email-error",
		)
	}
	return entity.EtoD(), nil
}

// FindByID fetches a user by its internal id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("user not found: %d", id),
				nil,
				"find-user-by-id-not-found",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch user by id",
			err,
			"find-user-by-id-error",
		)
	}
	return entity.EtoD(), nil
}

// Create inserts a user record.
func (r *Repository) Create(ctx context.Context, usr *domain.User) error {
	entity := entities.NewSchemaUser(usr)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"create-user-error",
		)
	}
	usr.ID = entity.ID
	usr.PublicID = entity.PublicID
	usr.Timezone = entity.Timezone
	usr.CreatedAt = entity.CreatedAt
	usr.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetOrCreateByEmail provisions a user row on first sight of an email. A
// concurrent insert losing the unique-index race falls back to the
// existing row.
func (r *Repository) GetOrCreateByEmail(ctx context.Context, email string) (*domain.User, error) {
	found, err := r.FindByEmail(ctx, email)
	if err == nil {
		return found, nil
	}
	if !platformerrors.IsNotFound(err) {
		return nil, err
	}

	usr := &domain.User{Email: email, Timezone: "UTC"}
	if cerr := r.Create(ctx, usr); cerr != nil {
		if existing, ferr := r.FindByEmail(ctx, email); ferr == nil {
			return existing, nil
		}
		return nil, cerr
	}
	return usr, nil
}
