package comments

import (
	"context"
	"fmt"

	"github.com/ripplefeed/ripple/internal/shared"
)

// Service handles comment business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new comment for the given author.
func (s *Service) Create(ctx context.Context, authorID int64, req CreateCommentRequest) (*Comment, error) {
	if req.PostID <= 0 || req.Content == "" {
		return nil, shared.ErrValidation
	}

	id, err := s.repo.Create(ctx, Comment{
		PostID:   req.PostID,
		AuthorID: authorID,
		Content:  req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// ListByPost returns a post's comments.
func (s *Service) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}
