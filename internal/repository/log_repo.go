package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// LogRepository reads the append-only audit log. Writes happen only
// inside Tx, paired with the mutation they describe.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository creates a new LogRepository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// ListByStore returns a store's audit entries, newest first, with a
// total count for pagination.
func (r *LogRepository) ListByStore(ctx context.Context, storeID, page, limit int) ([]models.LogEntry, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const countQ = `SELECT COUNT(1) FROM logs WHERE store_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, storeID); err != nil {
		return nil, 0, err
	}

	const listQ = `
        SELECT * FROM logs
        WHERE store_id = $1
        ORDER BY id DESC
        LIMIT $2 OFFSET $3`
	var entries []models.LogEntry
	if err := r.db.SelectContext(ctx, &entries, listQ, storeID, limit, offset); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
