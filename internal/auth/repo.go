package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ripplefeed/ripple/internal/shared"
)

// uniqueViolation is the postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, name, lastname, username, email, birth_date, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, name, lastname, username, email, birth_date, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a new user. A unique violation on the email column is
// reported as shared.ErrDuplicateUser so concurrent signups are resolved by
// the store rather than the service pre-check.
func (r *PGRepository) Create(ctx context.Context, user *User) (int64, error) {
	birthDate, err := parseDate(user.BirthDate)
	if err != nil {
		return 0, shared.ErrValidation
	}

	const query = `
		INSERT INTO users (name, lastname, username, email, birth_date, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`
	var id int64
	err = r.pool.QueryRow(ctx, query,
		user.Name, user.Lastname, user.Username, user.Email,
		pgtype.Date{Time: birthDate, Valid: true}, user.PasswordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, shared.ErrDuplicateUser
		}
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	var birthDate pgtype.Date
	var createdAt pgtype.Timestamptz

	err := row.Scan(&user.ID, &user.Name, &user.Lastname, &user.Username,
		&user.Email, &birthDate, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if birthDate.Valid {
		user.BirthDate = birthDate.Time.Format("2006-01-02")
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	return &user, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

var _ Repository = (*PGRepository)(nil)
