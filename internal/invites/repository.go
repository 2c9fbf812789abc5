package invites

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

var (
	// ErrNotFound means no invitation matches the code.
	ErrNotFound = errors.New("invitation not found")
	// ErrExpired means the invitation is past its expiry.
	ErrExpired = errors.New("invitation expired")
	// ErrExhausted means the invitation hit its usage cap.
	ErrExhausted = errors.New("invitation exhausted")
)

// RedeemResult describes what a successful redemption did.
type RedeemResult struct {
	User            *models.User
	CreatedUser     bool // a new account was created
	GrantedCampaign bool // an existing account gained a new campaign grant
}

// Repository handles invitation persistence and redemption.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invites repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invitationCols = `id, token, target_role, target_study_program_id, target_campaign_id,
	max_uses, current_uses, expires_at, created_by, created_at`

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(&inv.ID, &inv.Token, &inv.TargetRole, &inv.TargetStudyProgramID, &inv.TargetCampaignID,
		&inv.MaxUses, &inv.CurrentUses, &inv.ExpiresAt, &inv.CreatedBy, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persists a new invitation.
func (r *Repository) Create(ctx context.Context, inv *models.Invitation) error {
	const q = `INSERT INTO invitations (token, target_role, target_study_program_id, target_campaign_id, max_uses, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, current_uses, created_at`
	return r.pool.QueryRow(ctx, q, inv.Token, inv.TargetRole, inv.TargetStudyProgramID, inv.TargetCampaignID,
		inv.MaxUses, inv.ExpiresAt, inv.CreatedBy).
		Scan(&inv.ID, &inv.CurrentUses, &inv.CreatedAt)
}

// GetByToken returns an invitation by its code.
func (r *Repository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv, err := scanInvitation(r.pool.QueryRow(ctx,
		`SELECT `+invitationCols+` FROM invitations WHERE token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

// ListByCreator returns invitations issued by a user, newest first.
func (r *Repository) ListByCreator(ctx context.Context, userID int64) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invitationCols+` FROM invitations WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

// Redeem consumes one use of the invitation and applies its effect to the
// identity store: an existing user gains the target campaign grant (set
// semantics, no duplicates), a missing user is created with the target
// role. Counter increment and user mutation commit together or not at all.
//
// The usage cap is enforced with a conditional increment, so concurrent
// redemptions cannot race past max_uses.
func (r *Repository) Redeem(ctx context.Context, code, email string) (*RedeemResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const consume = `UPDATE invitations
		SET current_uses = current_uses + 1
		WHERE token = $1 AND current_uses < max_uses AND expires_at > NOW()
		RETURNING ` + invitationCols
	inv, err := scanInvitation(tx.QueryRow(ctx, consume, code))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// Classify the failure for the caller.
		inv, err = scanInvitation(tx.QueryRow(ctx,
			`SELECT `+invitationCols+` FROM invitations WHERE token = $1`, code))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case err != nil:
			return nil, err
		case !time.Now().Before(inv.ExpiresAt):
			return nil, ErrExpired
		default:
			return nil, ErrExhausted
		}
	}

	res := &RedeemResult{}
	var u models.User
	err = tx.QueryRow(ctx,
		`SELECT id, email, role, study_program_id, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Role, &u.StudyProgramID, &u.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		const ins = `INSERT INTO users (email, role, study_program_id)
			VALUES ($1, $2, $3)
			RETURNING id, email, role, study_program_id, created_at`
		if err := tx.QueryRow(ctx, ins, email, inv.TargetRole, inv.TargetStudyProgramID).
			Scan(&u.ID, &u.Email, &u.Role, &u.StudyProgramID, &u.CreatedAt); err != nil {
			return nil, err
		}
		res.CreatedUser = true
	case err != nil:
		return nil, err
	}

	if inv.TargetCampaignID != nil {
		tag, err := tx.Exec(ctx,
			`INSERT INTO user_campaigns (user_id, campaign_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			u.ID, *inv.TargetCampaignID)
		if err != nil {
			return nil, err
		}
		res.GrantedCampaign = !res.CreatedUser && tag.RowsAffected() > 0
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	res.User = &u
	return res, nil
}

// SeedAdminInvite makes sure a bootstrap starosta invitation with the
// given token exists. Used once at startup when DEFAULT_ADMIN_INVITE_TOKEN
// is configured, mirroring the offline invite generator.
func (r *Repository) SeedAdminInvite(ctx context.Context, token string, validFor time.Duration) error {
	const q = `INSERT INTO invitations (token, target_role, max_uses, expires_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (token) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, token, models.RoleAdmin, time.Now().Add(validFor))
	return err
}
