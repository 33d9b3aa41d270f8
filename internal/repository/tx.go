package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// Tx is the transactional view of the tables that must change together:
// routers, categories, actions and the audit log. Every router or
// category mutation pairs with a log write inside one committed
// transaction; router reads lock the row so concurrent actions on the
// same serial number serialize.
//
// Lookup methods return (nil, nil) when no row matches.
type Tx interface {
	RouterBySerial(ctx context.Context, serial string) (*models.Router, error)
	RouterBySerialForStore(ctx context.Context, storeID int, serial string) (*models.Router, error)
	RouterByID(ctx context.Context, id int) (*models.Router, error)
	CreateRouter(ctx context.Context, r *models.Router) error
	UpdateRouter(ctx context.Context, r *models.Router) error

	CategoryByID(ctx context.Context, id int) (*models.Category, error)
	CategoryByName(ctx context.Context, storeID int, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error

	CreateAction(ctx context.Context, a *models.Action) error
	CreateLog(ctx context.Context, e *models.LogEntry) error
}

// TxManager opens atomic units of work against the entity store.
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// InTx runs fn inside a database transaction, committing on nil error
// and rolling back otherwise.
func (m *TxManager) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlTx implements Tx over a live *sqlx.Tx.
type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) RouterBySerial(ctx context.Context, serial string) (*models.Router, error) {
	const q = `SELECT * FROM routers WHERE serial_number = $1 LIMIT 1 FOR UPDATE`
	var r models.Router
	if err := t.tx.GetContext(ctx, &r, q, serial); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (t *sqlTx) RouterBySerialForStore(ctx context.Context, storeID int, serial string) (*models.Router, error) {
	const q = `SELECT * FROM routers WHERE store_id = $1 AND serial_number = $2 LIMIT 1 FOR UPDATE`
	var r models.Router
	if err := t.tx.GetContext(ctx, &r, q, storeID, serial); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (t *sqlTx) RouterByID(ctx context.Context, id int) (*models.Router, error) {
	const q = `SELECT * FROM routers WHERE id = $1 LIMIT 1 FOR UPDATE`
	var r models.Router
	if err := t.tx.GetContext(ctx, &r, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (t *sqlTx) CreateRouter(ctx context.Context, r *models.Router) error {
	const q = `
        INSERT INTO routers (store_id, category_id, serial_number, imei, status, reason, deleted, shipped)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	err := t.tx.QueryRowxContext(ctx, q,
		r.StoreID, r.CategoryID, r.SerialNumber, r.IMEI, r.Status, r.Reason, r.Deleted, r.Shipped,
	).Scan(&r.ID, &r.CreatedAt)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateSerial
	}
	return err
}

func (t *sqlTx) UpdateRouter(ctx context.Context, r *models.Router) error {
	const q = `
        UPDATE routers SET
            store_id = $2,
            category_id = $3,
            serial_number = $4,
            imei = $5,
            status = $6,
            reason = $7,
            deleted = $8,
            shipped = $9
        WHERE id = $1`

	_, err := t.tx.ExecContext(ctx, q,
		r.ID, r.StoreID, r.CategoryID, r.SerialNumber, r.IMEI, r.Status, r.Reason, r.Deleted, r.Shipped,
	)
	if isUniqueViolation(err) {
		return utils.ErrDuplicateSerial
	}
	return err
}

func (t *sqlTx) CategoryByID(ctx context.Context, id int) (*models.Category, error) {
	const q = `SELECT * FROM categories WHERE id = $1 LIMIT 1 FOR UPDATE`
	var c models.Category
	if err := t.tx.GetContext(ctx, &c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (t *sqlTx) CategoryByName(ctx context.Context, storeID int, name string) (*models.Category, error) {
	const q = `SELECT * FROM categories WHERE store_id = $1 AND name = $2 AND deleted = FALSE LIMIT 1 FOR UPDATE`
	var c models.Category
	if err := t.tx.GetContext(ctx, &c, q, storeID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (t *sqlTx) CreateCategory(ctx context.Context, c *models.Category) error {
	const q = `
        INSERT INTO categories (store_id, name, type, deleted, alerted, alert_on)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return t.tx.QueryRowxContext(ctx, q,
		c.StoreID, c.Name, c.Type, c.Deleted, c.Alerted, c.AlertOn,
	).Scan(&c.ID, &c.CreatedAt)
}

func (t *sqlTx) UpdateCategory(ctx context.Context, c *models.Category) error {
	const q = `
        UPDATE categories SET
            name = $2,
            type = $3,
            deleted = $4,
            alerted = $5,
            alert_on = $6
        WHERE id = $1`

	_, err := t.tx.ExecContext(ctx, q, c.ID, c.Name, c.Type, c.Deleted, c.Alerted, c.AlertOn)
	return err
}

func (t *sqlTx) CreateAction(ctx context.Context, a *models.Action) error {
	const q = `
        INSERT INTO actions (store_id, user_id, action, router_id, router2_id, order_number, reason, comment, shipped)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`

	return t.tx.QueryRowxContext(ctx, q,
		a.StoreID, a.UserID, a.Type, a.RouterID, a.Router2ID, a.OrderNumber, a.Reason, a.Comment, a.Shipped,
	).Scan(&a.ID, &a.CreatedAt)
}

func (t *sqlTx) CreateLog(ctx context.Context, e *models.LogEntry) error {
	const q = `
        INSERT INTO logs (store_id, user_id, action, instance, serial_number, category_name, instance_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return t.tx.QueryRowxContext(ctx, q,
		e.StoreID, e.UserID, e.Action, e.Instance, e.SerialNumber, e.CategoryName, e.InstanceID,
	).Scan(&e.ID, &e.CreatedAt)
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (error code 23505).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
