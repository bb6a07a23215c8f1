package posts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ripplefeed/ripple/internal/shared"
)

// Repository defines persistence operations for posts.
type Repository interface {
	Create(ctx context.Context, post Post) (int64, error)
	Get(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context) ([]Post, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new post.
func (r *PGRepository) Create(ctx context.Context, post Post) (int64, error) {
	const query = `
		INSERT INTO posts (user_id, title, body, image, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`
	var image pgtype.Text
	if post.Image != nil {
		image = pgtype.Text{String: *post.Image, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query, post.AuthorID, post.Title, post.Body, image).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get fetches a single post with its author projection.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Post, error) {
	const query = `
		SELECT p.id, p.user_id, p.title, p.body, p.image, p.created_at,
		       u.name, u.lastname, u.username
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// List returns the feed, newest first, with author projections.
func (r *PGRepository) List(ctx context.Context) ([]Post, error) {
	const query = `
		SELECT p.id, p.user_id, p.title, p.body, p.image, p.created_at,
		       u.name, u.lastname, u.username
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func scanPost(row pgx.Row) (*Post, error) {
	var post Post
	var author Author
	var image pgtype.Text
	var createdAt pgtype.Timestamptz

	err := row.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Body, &image, &createdAt,
		&author.Name, &author.Lastname, &author.Username)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		post.Image = &image.String
	}
	if createdAt.Valid {
		post.CreatedAt = createdAt.Time
	}
	post.Author = &author
	return &post, nil
}

var _ Repository = (*PGRepository)(nil)
