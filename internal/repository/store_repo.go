package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// StoreRepository handles data access for stores.
type StoreRepository struct {
	db *sqlx.DB
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db *sqlx.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// GetByID returns a store by id, or nil when absent.
func (r *StoreRepository) GetByID(ctx context.Context, id int) (*models.Store, error) {
	const q = `SELECT * FROM stores WHERE id = $1 LIMIT 1`
	var s models.Store
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns all stores.
func (r *StoreRepository) List(ctx context.Context) ([]models.Store, error) {
	const q = `SELECT * FROM stores ORDER BY id`
	var stores []models.Store
	if err := r.db.SelectContext(ctx, &stores, q); err != nil {
		return nil, err
	}
	return stores, nil
}

// Create inserts a new store.
func (r *StoreRepository) Create(ctx context.Context, s *models.Store) error {
	const q = `
        INSERT INTO stores (name, alert_on)
        VALUES ($1, $2)
        RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, q, s.Name, s.AlertOn).Scan(&s.ID, &s.CreatedAt)
}

// UpdateAlertOn sets the store-wide low stock threshold. Returns
// ErrStoreNotFound when no store matches.
func (r *StoreRepository) UpdateAlertOn(ctx context.Context, storeID, alertOn int) error {
	const q = `UPDATE stores SET alert_on = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, storeID, alertOn)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return utils.ErrStoreNotFound
	}
	return nil
}
