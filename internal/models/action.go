package models

import "time"

// ActionType is the closed set of business events that move a router
// through its lifecycle.
type ActionType string

const (
	ActionCollect ActionType = "collect"
	ActionSale    ActionType = "sale"
	ActionReturn  ActionType = "return"
	ActionSwap    ActionType = "swap"
)

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionCollect, ActionSale, ActionReturn, ActionSwap:
		return true
	}
	return false
}

// Action records one lifecycle event on a router. Rows are immutable
// except for the shipped flag. Router2 is set only for swaps.
type Action struct {
	ID          int        `db:"id" json:"id"`
	StoreID     *int       `db:"store_id" json:"storeId,omitempty"`
	UserID      *int       `db:"user_id" json:"userId,omitempty"`
	Type        ActionType `db:"action" json:"action"`
	RouterID    *int       `db:"router_id" json:"routerId,omitempty"`
	Router2ID   *int       `db:"router2_id" json:"router2Id,omitempty"`
	OrderNumber *string    `db:"order_number" json:"orderNumber,omitempty"`
	Reason      *string    `db:"reason" json:"reason,omitempty"`
	Comment     *string    `db:"comment" json:"comment,omitempty"`
	Shipped     bool       `db:"shipped" json:"shipped"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}
