package models

import "time"

// DefaultAlertOn is the low-stock threshold applied when a store or
// category is created without an explicit one.
const DefaultAlertOn = 50

// Store is a retail branch owning categories, routers and staff.
type Store struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	AlertOn   int       `db:"alert_on" json:"alertOn"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
