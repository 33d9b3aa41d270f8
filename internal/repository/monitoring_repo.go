package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// MonitoringRepository persists daily stock snapshots. A unique index on
// (store_id, category_id, day) backs the upsert, so concurrent writers
// for the same day converge on a single row.
type MonitoringRepository struct {
	db *sqlx.DB
}

// NewMonitoringRepository creates a new MonitoringRepository.
func NewMonitoringRepository(db *sqlx.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

// dayArg formats a calendar day for DATE column parameters.
func dayArg(day time.Time) string {
	return day.Format("2006-01-02")
}

// Upsert writes the snapshot for (store, category, day), overwriting the
// count when a row for that day already exists.
func (r *MonitoringRepository) Upsert(ctx context.Context, m *models.Monitoring) error {
	const q = `
        INSERT INTO monitorings (store_id, category_id, routers, day)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (store_id, category_id, day)
        DO UPDATE SET routers = EXCLUDED.routers
        RETURNING id`
	return r.db.QueryRowxContext(ctx, q, m.StoreID, m.CategoryID, m.Routers, dayArg(m.Day)).Scan(&m.ID)
}

// ForDay returns the snapshot for one store category on one day, or nil
// when none was recorded.
func (r *MonitoringRepository) ForDay(ctx context.Context, storeID, categoryID int, day time.Time) (*models.Monitoring, error) {
	const q = `
        SELECT * FROM monitorings
        WHERE store_id = $1 AND category_id = $2 AND day = $3
        LIMIT 1`
	var m models.Monitoring
	if err := r.db.GetContext(ctx, &m, q, storeID, categoryID, dayArg(day)); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// SumForDay returns the store-wide snapshot total for one day. The
// second result reports whether any snapshot row exists for that day,
// since callers treat an absent day differently from a recorded zero.
func (r *MonitoringRepository) SumForDay(ctx context.Context, storeID int, day time.Time) (int, bool, error) {
	const q = `
        SELECT COALESCE(SUM(routers), 0), COUNT(1)
        FROM monitorings
        WHERE store_id = $1 AND day = $2`
	var total, rows int
	if err := r.db.QueryRowxContext(ctx, q, storeID, dayArg(day)).Scan(&total, &rows); err != nil {
		return 0, false, err
	}
	return total, rows > 0, nil
}
