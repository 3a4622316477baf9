package models

import "time"

// Role is a staff role carried in the session token.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleWaiter  Role = "waiter"
	RoleChef    Role = "chef"
	RoleCashier Role = "cashier"
)

// IsValidRole checks if the provided string names a known role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleWaiter, RoleChef, RoleCashier:
		return true
	default:
		return false
	}
}

// User represents a staff account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialized
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
