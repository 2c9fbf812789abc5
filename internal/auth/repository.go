package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

var (
	// ErrTokenInvalid means the magic link token is unknown, already used
	// or past its expiry.
	ErrTokenInvalid = errors.New("magic link token invalid or expired")
	// ErrUserVanished means the token's owner no longer exists.
	ErrUserVanished = errors.New("token owner no longer exists")
)

// Repository handles auth_tokens persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateToken persists a freshly issued magic-link token.
func (r *Repository) CreateToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	const q = `INSERT INTO auth_tokens (email, token, expires_at) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, q, email, token, expiresAt)
	return err
}

// RedeemToken consumes a magic-link token and returns its owner. Marking
// the token used and resolving the user happen in one transaction, so a
// token is never burned without a session being issuable for it. A second
// redemption of the same token fails with ErrTokenInvalid.
func (r *Repository) RedeemToken(ctx context.Context, token string) (*models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const mark = `UPDATE auth_tokens SET used = TRUE
		WHERE token = $1 AND NOT used AND expires_at > NOW()
		RETURNING email`
	var email string
	if err := tx.QueryRow(ctx, mark, token).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	const userQ = `SELECT id, email, role, study_program_id, created_at
		FROM users WHERE email = $1`
	var u models.User
	if err := tx.QueryRow(ctx, userQ, email).Scan(&u.ID, &u.Email, &u.Role, &u.StudyProgramID, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Rollback keeps the token unused.
			return nil, ErrUserVanished
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}
