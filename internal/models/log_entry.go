package models

import "time"

// LogAction enumerates audit log verbs.
type LogAction string

const (
	LogAdd    LogAction = "add"
	LogEdit   LogAction = "edit"
	LogDelete LogAction = "delete"
)

// LogInstance enumerates the entity kinds the audit log covers.
type LogInstance string

const (
	LogRouter   LogInstance = "router"
	LogCategory LogInstance = "category"
)

// LogEntry is one append-only audit record. SerialNumber and
// CategoryName are denormalized snapshots of the entity's identifying
// name at the time of the action, so history survives later edits.
type LogEntry struct {
	ID           int         `db:"id" json:"id"`
	StoreID      *int        `db:"store_id" json:"storeId,omitempty"`
	UserID       *int        `db:"user_id" json:"userId,omitempty"`
	Action       LogAction   `db:"action" json:"action"`
	Instance     LogInstance `db:"instance" json:"instance"`
	SerialNumber *string     `db:"serial_number" json:"serialNumber,omitempty"`
	CategoryName *string     `db:"category_name" json:"categoryName,omitempty"`
	InstanceID   int         `db:"instance_id" json:"instanceId"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}
