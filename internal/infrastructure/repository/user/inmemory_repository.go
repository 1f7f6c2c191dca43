package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "chat-platform/services/conversation-api/internal/domain/user"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	users  map[uint]*domain.User
	nextID uint
}

// NewInMemoryRepository builds an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[uint]*domain.User)}
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

// FindByEmail fetches a user by email.
func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, usr := range r.users {
		if usr.Email == email {
			clone := *usr
			return &clone, nil
		}
	}
	return nil, notFound(ctx, "user not found: "+email)
}

// FindByID fetches a user by its internal id.
func (r *InMemoryRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if usr, ok := r.users[id]; ok {
		clone := *usr
		return &clone, nil
	}
	return nil, notFound(ctx, "user not found")
}

// Create inserts a user record.
func (r *InMemoryRepository) Create(ctx context.Context, usr *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	usr.ID = r.nextID
	if usr.PublicID == "" {
		usr.PublicID = uuid.NewString()
	}
	if usr.Timezone == "" {
		usr.Timezone = "UTC"
	}
	now := time.Now().UTC()
	usr.CreatedAt = now
	usr.UpdatedAt = now
	clone := *usr
	r.users[usr.ID] = &clone
	return nil
}

// GetOrCreateByEmail provisions a user row on first sight of an email.
func (r *InMemoryRepository) GetOrCreateByEmail(ctx context.Context, email string) (*domain.User, error) {
	found, err := r.FindByEmail(ctx, email)
	if err == nil {
		return found, nil
	}
	if !platformerrors.IsNotFound(err) {
		return nil, err
	}
	usr := &domain.User{Email: email, Timezone: "UTC"}
	if cerr := r.Create(ctx, usr); cerr != nil {
		return nil, cerr
	}
	return usr, nil
}
