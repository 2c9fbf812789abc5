package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

var (
	// ErrNotFound means no user matches the query.
	ErrNotFound = errors.New("user not found")
)

// Repository handles user persistence and campaign access grants.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userCols = `id, email, role, study_program_id, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.StudyProgramID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

// AllowedCampaignIDs returns the set of campaign ids granted to the user.
func (r *Repository) AllowedCampaignIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT campaign_id FROM user_campaigns WHERE user_id = $1 ORDER BY granted_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasCampaignAccess reports whether the user holds a grant for the campaign.
func (r *Repository) HasCampaignAccess(ctx context.Context, userID, campaignID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_campaigns WHERE user_id = $1 AND campaign_id = $2)`,
		userID, campaignID).Scan(&ok)
	return ok, err
}

// GrantCampaign adds a campaign grant if absent (set semantics).
func (r *Repository) GrantCampaign(ctx context.Context, userID, campaignID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_campaigns (user_id, campaign_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, campaignID)
	return err
}

// CountRegistrations returns how many preference rows the user holds.
func (r *Repository) CountRegistrations(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// CountCreatedCampaigns returns how many campaigns the user created.
func (r *Repository) CountCreatedCampaigns(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM registration_campaigns WHERE creator_id = $1`, userID).Scan(&n)
	return n, err
}
