package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// UserRepository handles data access for staff users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns a user by id, or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// EmailsByStore returns the email addresses of a store's staff. When
// role is non-nil, only users holding that role are included (used to
// scope return/swap mail to management).
func (r *UserRepository) EmailsByStore(ctx context.Context, storeID int, role *models.Role) ([]string, error) {
	var emails []string
	if role != nil {
		const q = `SELECT email FROM users WHERE store_id = $1 AND role = $2 AND email != ''`
		if err := r.db.SelectContext(ctx, &emails, q, storeID, *role); err != nil {
			return nil, err
		}
		return emails, nil
	}
	const q = `SELECT email FROM users WHERE store_id = $1 AND email != ''`
	if err := r.db.SelectContext(ctx, &emails, q, storeID); err != nil {
		return nil, err
	}
	return emails, nil
}
