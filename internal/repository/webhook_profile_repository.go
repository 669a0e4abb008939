package repository

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/zapleads/zapleads-backend/internal/model"
)

type WebhookProfileRepositoryInterface interface {
	GetByUserID(userID int) (*model.WebhookProfile, error)
}

type WebhookProfileRepository struct {
	DB *sql.DB
}

// GetByUserID returns the user's relay overrides, or nil when the user
// never configured any (not an error; defaults apply).
func (r *WebhookProfileRepository) GetByUserID(userID int) (*model.WebhookProfile, error) {
	query := `
        SELECT user_id, COALESCE(webhook_whatsapp_url, ''), COALESCE(webhook_email_url, '')
        FROM user_webhook_profiles
        WHERE user_id=$1
    `
	var p model.WebhookProfile
	err := r.DB.QueryRow(query, userID).Scan(&p.UserID, &p.WebhookWhatsappURL, &p.WebhookEmailURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch webhook profile")
	}
	return &p, nil
}

var _ WebhookProfileRepositoryInterface = (*WebhookProfileRepository)(nil)
