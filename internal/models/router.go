package models

import "time"

// RouterStatus is the lifecycle state of a router device.
type RouterStatus string

const (
	StatusInStock   RouterStatus = "in_stock"
	StatusNewSale   RouterStatus = "new_sale"
	StatusCollected RouterStatus = "collected"
	StatusReturn    RouterStatus = "return"
	StatusSwap      RouterStatus = "swap"
)

// Router is a physical device tracked as inventory. The store reference
// is nullable: a router may be unassigned while in transit between
// stores. Serial numbers are unique across the whole system, including
// soft-deleted rows.
type Router struct {
	ID           int          `db:"id" json:"id"`
	StoreID      *int         `db:"store_id" json:"storeId,omitempty"`
	CategoryID   *int         `db:"category_id" json:"categoryId,omitempty"`
	SerialNumber string       `db:"serial_number" json:"serialNumber"`
	IMEI         *string      `db:"imei" json:"imei,omitempty"`
	Status       RouterStatus `db:"status" json:"status"`
	Reason       *string      `db:"reason" json:"reason,omitempty"`
	Deleted      bool         `db:"deleted" json:"-"`
	Shipped      bool         `db:"shipped" json:"shipped"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// InStore reports whether the router currently belongs to the given store.
func (r *Router) InStore(storeID int) bool {
	return r.StoreID != nil && *r.StoreID == storeID
}
