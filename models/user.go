// Package models defines data structures used across the application.
// File: models/user.go
package models

// ----------------------- roles -----------------------

// the two fixed roles the application knows about
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the two known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// ----------------------- user model -----------------------

// User represents an account record. On disk the user collection is a
// JSON object keyed by username, so Username is filled in by the store
// when records are handed out and omitted when they are written back.
type User struct {
	Username string `json:"-"`
	Password string `json:"password"` // bcrypt hash, never plaintext
	Role     string `json:"role"`
	Name     string `json:"name"` // display name
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
