package prompt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/user"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// Service describes the business logic surface for prompt templates.
type Service interface {
	Add(ctx context.Context, userEmail, category, name, content string) error
	Get(ctx context.Context, userEmail, category, name string) (*Prompt, error)
	List(ctx context.Context, userEmail, category string) ([]string, error)
	ListCategories(ctx context.Context, userEmail string) ([]string, error)
	Update(ctx context.Context, userEmail, category, name, content string) error
	Rename(ctx context.Context, userEmail, category, name, newName string) error
	Delete(ctx context.Context, userEmail, category, name string) error
	Args(ctx context.Context, userEmail, category, name string) ([]string, error)
}

type service struct {
	repo  Repository
	users user.Repository
	log   zerolog.Logger
}

// NewService wires the prompt service with its repositories.
func NewService(repo Repository, users user.Repository, log zerolog.Logger) Service {
	return &service{
		repo:  repo,
		users: users,
		log:   log.With().Str("component", "prompt-service").Logger(),
	}
}

func (s *service) owner(ctx context.Context, email string) (*user.User, error) {
	return s.users.GetOrCreateByEmail(ctx, email)
}

func normalizeCategory(category string) string {
	if category == "" {
		return DefaultCategory
	}
	return category
}

func (s *service) Add(ctx context.Context, userEmail, category, name, content string) error {
	u, err := s.owner(ctx, userEmail)
	if err != nil {
		return err
	}
	category = normalizeCategory(category)

	if _, err := s.repo.Find(ctx, u.ID, category, name); err == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("prompt already exists: %s/%s", category, name), nil, "")
	} else if !platformerrors.IsNotFound(err) {
		return err
	}

	p := &Prompt{Name: name, Category: category, Content: content, UserID: u.ID}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.log.Info().Str("category", category).Str("prompt", name).Msg("prompt added")
	return nil
}

func (s *service) Get(ctx context.Context, userEmail, category, name string) (*Prompt, error) {
	u, err := s.owner(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, u.ID, normalizeCategory(category), name)
}

func (s *service) List(ctx context.Context, userEmail, category string) ([]string, error) {
	u, err := s.owner(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.ListNames(ctx, u.ID, normalizeCategory(category))
}

func (s *service) ListCategories(ctx context.Context, userEmail string) ([]string, error) {
	u, err := s.owner(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, u.ID)
}

func (s *service) Update(ctx context.Context, userEmail, category, name, content string) error {
	p, err := s.Get(ctx, userEmail, category, name)
	if err != nil {
		return err
	}
	return s.repo.UpdateContent(ctx, p.ID, content)
}

func (s *service) Rename(ctx context.Context, userEmail, category, name, newName string) error {
	p, err := s.Get(ctx, userEmail, category, name)
	if err != nil {
		return err
	}
	return s.repo.Rename(ctx, p.ID, newName)
}

func (s *service) Delete(ctx context.Context, userEmail, category, name string) error {
	p, err := s.Get(ctx, userEmail, category, name)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *service) Args(ctx context.Context, userEmail, category, name string) ([]string, error) {
	p, err := s.Get(ctx, userEmail, category, name)
	if err != nil {
		return nil, err
	}
	return ExtractArgs(p.Content), nil
}
