package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ripplefeed/ripple/internal/shared"
)

// Repository defines persistence operations for the auth module. It is the
// boundary to the credential store; uniqueness races are resolved by the
// store's constraint and surface here as shared.ErrDuplicateUser.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
}

// Service orchestrates signup, login and current-user lookup.
type Service struct {
	repo   Repository
	hasher *Hasher
	tokens *Tokens
}

// NewService constructs a Service.
func NewService(repo Repository, hasher *Hasher, tokens *Tokens) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Signup validates the request, enforces email uniqueness, hashes the
// password, persists the user and issues a token for the new subject.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (string, *User, error) {
	if req.Name == "" || req.Lastname == "" || req.Username == "" ||
		req.Email == "" || req.Password == "" || req.BirthDate == "" {
		return "", nil, shared.ErrValidation
	}

	email := normalizeEmail(req.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return "", nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return "", nil, shared.ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:         req.Name,
		Lastname:     req.Lastname,
		Username:     req.Username,
		Email:        email,
		BirthDate:    req.BirthDate,
		PasswordHash: hash,
	}

	// Two concurrent signups with the same email race past the pre-check;
	// the store's unique constraint decides, and Create reports it as
	// shared.ErrDuplicateUser.
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateUser) {
			return "", nil, shared.ErrDuplicateUser
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	token, err := s.tokens.Issue(id)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same error so account existence cannot be probed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *User, error) {
	if req.Email == "" || req.Password == "" {
		return "", nil, shared.ErrValidation
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil, shared.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return "", nil, shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// CurrentUser verifies a raw token and resolves its subject. Token failures
// propagate with their specific subtype for server-side diagnostics.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, userID)
}

// UserByID fetches a user record by subject id.
func (s *Service) UserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", id, err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
