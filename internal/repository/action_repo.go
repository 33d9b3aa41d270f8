package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// ActionRepository handles data access for lifecycle actions. Action
// rows are immutable except for the shipped flag.
type ActionRepository struct {
	db *sqlx.DB
}

// NewActionRepository creates a new ActionRepository.
func NewActionRepository(db *sqlx.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// ListByStore returns a store's actions, newest first, with a total
// count for pagination.
func (r *ActionRepository) ListByStore(ctx context.Context, storeID, page, limit int) ([]models.Action, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const countQ = `SELECT COUNT(1) FROM actions WHERE store_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, storeID); err != nil {
		return nil, 0, err
	}

	const listQ = `
        SELECT * FROM actions
        WHERE store_id = $1
        ORDER BY id DESC
        LIMIT $2 OFFSET $3`
	var actions []models.Action
	if err := r.db.SelectContext(ctx, &actions, listQ, storeID, limit, offset); err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}

// ToggleShipped flips the shipped flag of a store's action and returns
// the new value. Returns ErrActionNotFound when the action does not
// belong to the store.
func (r *ActionRepository) ToggleShipped(ctx context.Context, storeID, actionID int) (bool, error) {
	const q = `
        UPDATE actions SET shipped = NOT shipped
        WHERE id = $1 AND store_id = $2
        RETURNING shipped`
	var shipped bool
	if err := r.db.QueryRowxContext(ctx, q, actionID, storeID).Scan(&shipped); err != nil {
		if err == sql.ErrNoRows {
			return false, utils.ErrActionNotFound
		}
		return false, err
	}
	return shipped, nil
}
