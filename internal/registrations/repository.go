package registrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

// MyGroup is a registration joined with its group name, as shown to the
// student on /student/my-groups.
type MyGroup struct {
	GroupName    string                    `json:"group_name"`
	Status       models.RegistrationStatus `json:"status"`
	Priority     int                       `json:"priority"`
	RegisteredAt time.Time                 `json:"registered_at"`
}

// Repository handles registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReplaceForCampaign atomically replaces the user's submission for the
// campaign: prior rows are deleted and one SUBMITTED row per preference is
// inserted in a single transaction. A mid-sequence failure rolls the whole
// replacement back, leaving the previous submission intact. Returns whether
// an earlier submission was overwritten.
func (r *Repository) ReplaceForCampaign(ctx context.Context, userID, campaignID int64, prefs []Preference) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	const del = `DELETE FROM registrations r
		USING registration_groups g
		WHERE r.group_id = g.id AND r.user_id = $1 AND g.campaign_id = $2`
	tag, err := tx.Exec(ctx, del, userID, campaignID)
	if err != nil {
		return false, err
	}
	replaced := tag.RowsAffected() > 0

	const ins = `INSERT INTO registrations (user_id, group_id, priority, status)
		VALUES ($1, $2, $3, $4)`
	for _, p := range prefs {
		if _, err := tx.Exec(ctx, ins, userID, p.GroupID, p.Priority, models.StatusSubmitted); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return replaced, nil
}

// ListMine returns the user's registrations joined with group names, in
// creation order.
func (r *Repository) ListMine(ctx context.Context, userID int64) ([]MyGroup, error) {
	const q = `SELECT g.name, r.status, r.priority, r.created_at
		FROM registrations r
		JOIN registration_groups g ON g.id = r.group_id
		WHERE r.user_id = $1
		ORDER BY r.created_at, r.id`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []MyGroup
	for rows.Next() {
		var mg MyGroup
		if err := rows.Scan(&mg.GroupName, &mg.Status, &mg.Priority, &mg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, mg)
	}
	return list, rows.Err()
}
