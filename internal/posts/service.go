package posts

import (
	"context"
	"fmt"

	"github.com/ripplefeed/ripple/internal/shared"
)

// Service handles post business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new post for the given author.
func (s *Service) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	if req.Title == "" || req.Body == "" {
		return nil, shared.ErrValidation
	}

	post := Post{
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
		Image:    req.Image,
	}

	id, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// List returns the feed.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}
