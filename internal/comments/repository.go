package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ripplefeed/ripple/internal/shared"
)

// foreignKeyViolation is the postgres error code for FK breaches; a comment
// against a deleted or unknown post surfaces as shared.ErrNotFound.
const foreignKeyViolation = "23503"

// Repository defines persistence operations for comments.
type Repository interface {
	Create(ctx context.Context, comment Comment) (int64, error)
	Get(ctx context.Context, id int64) (*Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new comment.
func (r *PGRepository) Create(ctx context.Context, comment Comment) (int64, error) {
	const query = `
		INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, comment.PostID, comment.AuthorID, comment.Content).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// Get fetches a single comment with its author projection.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.name, u.lastname, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	comment, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

// ListByPost returns a post's comments, oldest first.
func (r *PGRepository) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	const query = `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.name, u.lastname, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func scanComment(row pgx.Row) (*Comment, error) {
	var comment Comment
	var author Author
	var createdAt pgtype.Timestamptz

	err := row.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &createdAt,
		&author.Name, &author.Lastname, &author.Username)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		comment.CreatedAt = createdAt.Time
	}
	comment.Author = &author
	return &comment, nil
}

var _ Repository = (*PGRepository)(nil)
