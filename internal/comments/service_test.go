package comments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplefeed/ripple/internal/shared"
)

type mockRepository struct {
	nextID    int64
	comments  map[int64]Comment
	knownPost int64
}

func newMockRepository(knownPost int64) *mockRepository {
	return &mockRepository{comments: make(map[int64]Comment), knownPost: knownPost}
}

func (m *mockRepository) Create(_ context.Context, comment Comment) (int64, error) {
	if comment.PostID != m.knownPost {
		return 0, shared.ErrNotFound
	}
	m.nextID++
	comment.ID = m.nextID
	comment.CreatedAt = time.Now()
	comment.Author = &Author{Name: "Ada", Lastname: "Lovelace", Username: "ada"}
	m.comments[comment.ID] = comment
	return comment.ID, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &comment, nil
}

func (m *mockRepository) ListByPost(_ context.Context, postID int64) ([]Comment, error) {
	var out []Comment
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(newMockRepository(42))

	comment, err := svc.Create(context.Background(), 7, CreateCommentRequest{
		PostID:  42,
		Content: "well said",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), comment.PostID)
	assert.Equal(t, int64(7), comment.AuthorID)
	assert.Equal(t, "well said", comment.Content)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "ada", comment.Author.Username)
}

func TestServiceCreateUnknownPost(t *testing.T) {
	svc := NewService(newMockRepository(42))

	_, err := svc.Create(context.Background(), 7, CreateCommentRequest{
		PostID:  999,
		Content: "void",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceCreateRejectsEmptyFields(t *testing.T) {
	svc := NewService(newMockRepository(42))

	cases := []CreateCommentRequest{
		{PostID: 0, Content: "text"},
		{PostID: -1, Content: "text"},
		{PostID: 42, Content: ""},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), 7, req)
		assert.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestServiceListByPost(t *testing.T) {
	svc := NewService(newMockRepository(42))

	for _, content := range []string{"first", "second"} {
		_, err := svc.Create(context.Background(), 7, CreateCommentRequest{PostID: 42, Content: content})
		require.NoError(t, err)
	}

	listed, err := svc.ListByPost(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].Content)

	empty, err := svc.ListByPost(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
