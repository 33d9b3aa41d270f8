package models

import "time"

// Monitoring is a per-day stock snapshot for one store category.
// Rows are logically unique on (store, category, day) and are written
// with upsert semantics: a second computation for the same day
// overwrites the count in place.
type Monitoring struct {
	ID         int       `db:"id" json:"id"`
	StoreID    int       `db:"store_id" json:"-"`
	CategoryID *int      `db:"category_id" json:"categoryId,omitempty"`
	Routers    int       `db:"routers" json:"routers"`
	Day        time.Time `db:"day" json:"day"`
}

// Notification marks that a low-stock alert was sent to a store on a
// calendar day. The (store, day) pair is unique; its insert is the
// once-per-day guard for alert emails.
type Notification struct {
	ID      int       `db:"id" json:"id"`
	StoreID int       `db:"store_id" json:"-"`
	SentOn  time.Time `db:"sent_on" json:"sentOn"`
}
