// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role values a user account can hold. Role is authoritative for all
// policy decisions; there is no per-resource ACL beyond ownership.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered forum account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null;default:customer" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCustomer reports whether the user holds the customer role.
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}
