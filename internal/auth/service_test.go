package auth

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ripplefeed/ripple/internal/shared"
)

type mockRepository struct {
	byEmail map[string]*User
	byID    map[int64]*User
	nextID  int64

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[int64]*User),
		nextID:  1,
	}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, user *User) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		// The store's unique constraint, in miniature.
		return 0, shared.ErrDuplicateUser
	}
	id := m.nextID
	m.nextID++
	stored := *user
	stored.ID = id
	m.byEmail[stored.Email] = &stored
	m.byID[id] = &stored
	return id, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewHasher(bcrypt.MinCost), NewTokens("test-secret", 30*24*time.Hour))
}

func validSignup() SignupRequest {
	return SignupRequest{
		Name:      "A",
		Lastname:  "B",
		Username:  "ab",
		Email:     "a@b.com",
		Password:  "secret1",
		BirthDate: "2000-01-01",
	}
}

func TestSignupSuccess(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	token, user, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, user)

	assert.Equal(t, "a@b.com", user.Email)
	assert.NotZero(t, user.ID)

	// The stored record got the hash, not the plaintext.
	stored := repo.byEmail["a@b.com"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestSignupResponseNeverCarriesPassword(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, user, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	lowered := strings.ToLower(string(payload))
	assert.NotContains(t, lowered, "password")
	assert.NotContains(t, string(payload), user.PasswordHash)
}

func TestSignupMissingFields(t *testing.T) {
	svc := newTestService(newMockRepository())

	req := validSignup()
	req.Email = ""
	_, _, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, shared.ErrDuplicateUser)
}

func TestSignupDuplicateRace(t *testing.T) {
	// The pre-check passes but the store's constraint fires on insert,
	// as happens when two signups race.
	repo := newMockRepository()
	repo.createErr = shared.ErrDuplicateUser
	svc := newTestService(repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, shared.ErrDuplicateUser)
}

func TestSignupNormalizesEmail(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	req := validSignup()
	req.Email = "  A@B.Com "
	_, user, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestLoginSuccessSharesSubjectWithSignup(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	signupToken, created, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	loginToken, user, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	tokens := NewTokens("test-secret", 30*24*time.Hour)
	signupSubject, err := tokens.Verify(signupToken)
	require.NoError(t, err)
	loginSubject, err := tokens.Verify(loginToken)
	require.NoError(t, err)
	assert.Equal(t, signupSubject, loginSubject)
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), LoginRequest{Email: "nobody@b.com", Password: "secret1"})
	_, _, wrongErr := svc.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "wrong"})

	assert.ErrorIs(t, unknownErr, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, shared.ErrInvalidCredentials)
	// Same error value, not merely the same class.
	assert.Equal(t, unknownErr, wrongErr)
}

func TestLoginMissingFields(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCurrentUser(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	token, created, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.CurrentUser(context.Background(), "garbage")
	assert.ErrorIs(t, err, shared.ErrTokenMalformed)
}
