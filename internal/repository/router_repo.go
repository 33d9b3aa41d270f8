package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// RouterRepository handles read access for routers outside transactions.
// Mutations go through Tx so they commit with their audit log entry.
type RouterRepository struct {
	db *sqlx.DB
}

// NewRouterRepository creates a new RouterRepository.
func NewRouterRepository(db *sqlx.DB) *RouterRepository {
	return &RouterRepository{db: db}
}

// GetByID returns a router by id, or nil when absent.
func (r *RouterRepository) GetByID(ctx context.Context, id int) (*models.Router, error) {
	const q = `SELECT * FROM routers WHERE id = $1 LIMIT 1`
	var router models.Router
	if err := r.db.GetContext(ctx, &router, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &router, nil
}

// GetBySerial returns a router by serial number, or nil when absent.
// The lookup spans soft-deleted rows: serial numbers identify a device
// forever.
func (r *RouterRepository) GetBySerial(ctx context.Context, serial string) (*models.Router, error) {
	const q = `SELECT * FROM routers WHERE serial_number = $1 LIMIT 1`
	var router models.Router
	if err := r.db.GetContext(ctx, &router, q, serial); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &router, nil
}

// ListByStore returns non-deleted routers of a store, newest first,
// with a total count for pagination.
func (r *RouterRepository) ListByStore(ctx context.Context, storeID, page, limit int) ([]models.Router, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const countQ = `SELECT COUNT(1) FROM routers WHERE store_id = $1 AND NOT deleted`
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, storeID); err != nil {
		return nil, 0, err
	}

	const listQ = `
        SELECT * FROM routers
        WHERE store_id = $1 AND NOT deleted
        ORDER BY id DESC
        LIMIT $2 OFFSET $3`
	var routers []models.Router
	if err := r.db.SelectContext(ctx, &routers, listQ, storeID, limit, offset); err != nil {
		return nil, 0, err
	}
	return routers, total, nil
}

// ListByStatus returns a store's non-deleted routers in a given status,
// newest first.
func (r *RouterRepository) ListByStatus(ctx context.Context, storeID int, status models.RouterStatus) ([]models.Router, error) {
	const q = `
        SELECT * FROM routers
        WHERE store_id = $1 AND status = $2 AND NOT deleted
        ORDER BY created_at DESC`
	var routers []models.Router
	if err := r.db.SelectContext(ctx, &routers, q, storeID, status); err != nil {
		return nil, err
	}
	return routers, nil
}

// CountInStockByCategory returns the live in-stock count for one
// category. Soft-deleted routers never count.
func (r *RouterRepository) CountInStockByCategory(ctx context.Context, categoryID int) (int, error) {
	const q = `
        SELECT COUNT(1) FROM routers
        WHERE category_id = $1 AND status = 'in_stock' AND NOT deleted`
	var n int
	if err := r.db.GetContext(ctx, &n, q, categoryID); err != nil {
		return 0, err
	}
	return n, nil
}

// CountInStockByStore returns the live in-stock count for a whole store.
func (r *RouterRepository) CountInStockByStore(ctx context.Context, storeID int) (int, error) {
	const q = `
        SELECT COUNT(1) FROM routers
        WHERE store_id = $1 AND status = 'in_stock' AND NOT deleted`
	var n int
	if err := r.db.GetContext(ctx, &n, q, storeID); err != nil {
		return 0, err
	}
	return n, nil
}
