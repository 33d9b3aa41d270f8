package models

import "time"

// CategoryType enumerates the supported category types.
type CategoryType string

const (
	CategoryIndoor  CategoryType = "indoor"
	CategoryOutdoor CategoryType = "outdoor"
)

// Category groups routers within a store. Categories are soft-deleted,
// never removed, so audit history stays addressable.
type Category struct {
	ID        int          `db:"id" json:"id"`
	StoreID   int          `db:"store_id" json:"-"`
	Name      string       `db:"name" json:"name"`
	Type      CategoryType `db:"type" json:"type"`
	Deleted   bool         `db:"deleted" json:"-"`
	Alerted   bool         `db:"alerted" json:"alerted"`
	AlertOn   int          `db:"alert_on" json:"alertOn"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
