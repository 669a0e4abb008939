package repository

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	appErrors "github.com/zapleads/zapleads-backend/internal/errors"
	"github.com/zapleads/zapleads-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	GetByID(id int) (*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, user_id, name, status, channels, list_name, message,
               interval_min_seconds, interval_max_seconds, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Status, pq.Array(&c.Channels), &c.ListName,
		&c.Message, &c.IntervalMinSeconds, &c.IntervalMaxSeconds,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to fetch campaign")
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
