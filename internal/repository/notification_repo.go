package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// NotificationRepository records sent low-stock notifications. The
// unique (store_id, sent_on) constraint is the once-per-day guard: the
// first writer of a day wins, every later insert is a no-op.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateOnce inserts the notification marker for (store, day) and
// reports whether this call created it. False means a notification was
// already sent today and the caller must not email again.
func (r *NotificationRepository) CreateOnce(ctx context.Context, storeID int, day time.Time) (bool, error) {
	const q = `
        INSERT INTO notifications (store_id, sent_on)
        VALUES ($1, $2)
        ON CONFLICT (store_id, sent_on) DO NOTHING
        RETURNING id`
	var id int
	err := r.db.QueryRowxContext(ctx, q, storeID, day.Format("2006-01-02")).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
