package campaigns

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

var (
	// ErrNotFound means the campaign or group does not exist.
	ErrNotFound = errors.New("campaign not found")
)

// GroupStats is a group annotated with derived occupancy numbers: seats
// taken (ASSIGNED registrations) and first-choice demand (priority 1,
// status != rejected).
type GroupStats struct {
	models.Group
	AssignedCount     int `json:"assigned_count"`
	FirstChoiceDemand int `json:"first_choice_demand"`
}

// Repository handles campaign and group persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a campaigns repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const campaignCols = `id, creator_id, study_program_id, title, starts_at, ends_at, is_active, created_at`

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.CreatorID, &c.StudyProgramID, &c.Title, &c.StartsAt, &c.EndsAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GroupInput describes one group to create inside a campaign.
type GroupInput struct {
	Name      string `json:"name" binding:"required"`
	SeatLimit int    `json:"seat_limit" binding:"required,min=1"`
}

// Create inserts a campaign with its groups and grants the creator access,
// all in one transaction.
func (r *Repository) Create(ctx context.Context, campaign *models.Campaign, groups []GroupInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insCampaign = `INSERT INTO registration_campaigns (creator_id, study_program_id, title, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at`
	if err := tx.QueryRow(ctx, insCampaign, campaign.CreatorID, campaign.StudyProgramID,
		campaign.Title, campaign.StartsAt, campaign.EndsAt).
		Scan(&campaign.ID, &campaign.IsActive, &campaign.CreatedAt); err != nil {
		return err
	}

	for _, g := range groups {
		if _, err := tx.Exec(ctx,
			`INSERT INTO registration_groups (campaign_id, name, seat_limit) VALUES ($1, $2, $3)`,
			campaign.ID, g.Name, g.SeatLimit); err != nil {
			return err
		}
	}

	if campaign.CreatorID != nil {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_campaigns (user_id, campaign_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			*campaign.CreatorID, campaign.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID returns a campaign by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignCols+` FROM registration_campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// GroupsByCampaign returns the campaign's groups ordered by id.
func (r *Repository) GroupsByCampaign(ctx context.Context, campaignID int64) ([]models.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, campaign_id, name, seat_limit FROM registration_groups WHERE campaign_id = $1 ORDER BY id`,
		campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.CampaignID, &g.Name, &g.SeatLimit); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// ListByCreator returns campaigns created by a user, newest first.
func (r *Repository) ListByCreator(ctx context.Context, userID int64) ([]models.Campaign, error) {
	return r.list(ctx,
		`SELECT `+campaignCols+` FROM registration_campaigns WHERE creator_id = $1 ORDER BY created_at DESC`,
		userID)
}

// ListAllowedForUser returns active campaigns the user has been granted
// access to via invitations (the user_campaigns set).
func (r *Repository) ListAllowedForUser(ctx context.Context, userID int64) ([]models.Campaign, error) {
	return r.list(ctx,
		`SELECT c.id, c.creator_id, c.study_program_id, c.title, c.starts_at, c.ends_at, c.is_active, c.created_at
		FROM registration_campaigns c
		JOIN user_campaigns uc ON uc.campaign_id = c.id
		WHERE uc.user_id = $1 AND c.is_active
		ORDER BY c.starts_at`,
		userID)
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// GroupStatsByCampaign returns the campaign's groups with seat occupancy
// and first-choice demand derived from registrations.
func (r *Repository) GroupStatsByCampaign(ctx context.Context, campaignID int64) ([]GroupStats, error) {
	const q = `SELECT g.id, g.campaign_id, g.name, g.seat_limit,
		COUNT(r.id) FILTER (WHERE r.status = 'assigned'),
		COUNT(r.id) FILTER (WHERE r.priority = 1 AND r.status <> 'rejected')
		FROM registration_groups g
		LEFT JOIN registrations r ON r.group_id = g.id
		WHERE g.campaign_id = $1
		GROUP BY g.id
		ORDER BY g.id`
	rows, err := r.pool.Query(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []GroupStats
	for rows.Next() {
		var gs GroupStats
		if err := rows.Scan(&gs.ID, &gs.CampaignID, &gs.Name, &gs.SeatLimit,
			&gs.AssignedCount, &gs.FirstChoiceDemand); err != nil {
			return nil, err
		}
		list = append(list, gs)
	}
	return list, rows.Err()
}

// UpdateGroupLimit changes a group's seat limit. The group must belong to
// the campaign.
func (r *Repository) UpdateGroupLimit(ctx context.Context, campaignID, groupID int64, seatLimit int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registration_groups SET seat_limit = $1 WHERE id = $2 AND campaign_id = $3`,
		seatLimit, groupID, campaignID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate closes a campaign. Only the creator may do it.
func (r *Repository) Deactivate(ctx context.Context, campaignID, creatorID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registration_campaigns SET is_active = FALSE WHERE id = $1 AND creator_id = $2`,
		campaignID, creatorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
