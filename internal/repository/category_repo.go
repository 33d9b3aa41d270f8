package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// CategoryRepository handles read access and the alert latch for
// categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetByID returns a category by id, or nil when absent.
func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	const q = `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	var c models.Category
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListByStore returns a store's non-deleted categories, newest first.
func (r *CategoryRepository) ListByStore(ctx context.Context, storeID int) ([]models.Category, error) {
	const q = `
        SELECT * FROM categories
        WHERE store_id = $1 AND NOT deleted
        ORDER BY id DESC`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, q, storeID); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListUnalerted returns non-deleted categories whose alert latch has not
// tripped yet.
func (r *CategoryRepository) ListUnalerted(ctx context.Context, storeID int) ([]models.Category, error) {
	const q = `
        SELECT * FROM categories
        WHERE store_id = $1 AND NOT deleted AND NOT alerted
        ORDER BY id`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, q, storeID); err != nil {
		return nil, err
	}
	return categories, nil
}

// SetAlerted flips the alert latch for a category.
func (r *CategoryRepository) SetAlerted(ctx context.Context, id int, alerted bool) error {
	const q = `UPDATE categories SET alerted = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, alerted)
	return err
}
