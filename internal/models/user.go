package models

import "time"

// Role enumerates staff roles within a store.
type Role string

const (
	RoleStoreManager     Role = "store_manager"
	RoleSeniorManagement Role = "senior_management"
	RoleStockHandler     Role = "stock_handler"
)

// User is a staff member. Authentication lives outside this service;
// users exist here for audit attribution and email recipient selection.
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Role      *Role     `db:"role" json:"role,omitempty"`
	StoreID   *int      `db:"store_id" json:"storeId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// IsStoreManager reports whether the user holds the store_manager role.
func (u *User) IsStoreManager() bool {
	return u.Role != nil && *u.Role == RoleStoreManager
}
