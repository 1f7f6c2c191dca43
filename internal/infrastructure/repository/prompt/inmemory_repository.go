package prompt

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "chat-platform/services/conversation-api/internal/domain/prompt"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	prompts map[uint]*domain.Prompt
	nextID  uint
}

// NewInMemoryRepository builds an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{prompts: make(map[uint]*domain.Prompt)}
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

// Create inserts a prompt template.
func (r *InMemoryRepository) Create(ctx context.Context, p *domain.Prompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	if p.PublicID == "" {
		p.PublicID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	clone := *p
	r.prompts[p.ID] = &clone
	return nil
}

// Find fetches a prompt by owner, category and name.
func (r *InMemoryRepository) Find(ctx context.Context, userID uint, category, name string) (*domain.Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.prompts {
		if p.UserID == userID && p.Category == category && p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, notFound(ctx, "prompt not found: "+category+"/"+name)
}

// ListNames returns prompt names within a category, alphabetically.
func (r *InMemoryRepository) ListNames(ctx context.Context, userID uint, category string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, p := range r.prompts {
		if p.UserID == userID && p.Category == category {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListCategories returns the user's distinct prompt categories, alphabetically.
func (r *InMemoryRepository) ListCategories(ctx context.Context, userID uint) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var categories []string
	for _, p := range r.prompts {
		if p.UserID == userID && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// UpdateContent replaces a prompt's template text.
func (r *InMemoryRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prompts[id]; ok {
		p.Content = content
		p.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// Rename changes a prompt's name within its category.
func (r *InMemoryRepository) Rename(ctx context.Context, id uint, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prompts[id]; ok {
		p.Name = newName
		p.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// Delete removes a prompt.
func (r *InMemoryRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prompts, id)
	return nil
}
