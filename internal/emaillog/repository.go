package emaillog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-zapisy/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record stores one delivery attempt. errMsg is empty on success.
func (r *Repository) Record(ctx context.Context, emailType, recipient, subject, status, errMsg string) error {
	const q = `INSERT INTO email_logs (email_type, recipient_email, subject, status, error_message)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))`
	_, err := r.pool.Exec(ctx, q, emailType, recipient, subject, status, errMsg)
	return err
}

// List returns the most recent delivery attempts, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	const q = `SELECT id, email_type, recipient_email, COALESCE(subject, ''), status, COALESCE(error_message, ''), created_at
		FROM email_logs ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		if err := rows.Scan(&el.ID, &el.EmailType, &el.RecipientEmail, &el.Subject, &el.Status, &el.ErrorMessage, &el.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, el)
	}
	return list, rows.Err()
}
