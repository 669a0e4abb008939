package repository

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/zapleads/zapleads-backend/internal/model"
)

// ContactRepositoryInterface defines the reads the dispatcher needs
type ContactRepositoryInterface interface {
	GetListByName(userID int, name string) (*model.List, error)
	ListByListID(listID int) ([]model.Contact, error)
}

type ContactRepository struct {
	DB *sql.DB
}

// GetListByName resolves a list by owner and name; returns nil when the
// owner has no list with that name.
func (r *ContactRepository) GetListByName(userID int, name string) (*model.List, error) {
	query := `SELECT id, user_id, name FROM lists WHERE user_id=$1 AND name=$2`
	var l model.List
	err := r.DB.QueryRow(query, userID, name).Scan(&l.ID, &l.UserID, &l.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to fetch list")
	}
	return &l, nil
}

// ListByListID fetches a list's contacts ordered by id so a campaign run
// walks them in a stable order.
func (r *ContactRepository) ListByListID(listID int) ([]model.Contact, error) {
	query := `
        SELECT id, user_id, list_id, name, phone, email, category, cep, rating
        FROM contacts
        WHERE list_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, listID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query contacts")
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ListID, &c.Name, &c.Phone,
			&c.Email, &c.Category, &c.CEP, &c.Rating,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
