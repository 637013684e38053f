package model

import "time"

// Role distinguishes the two account types on the platform
type Role string

const (
	RolePlayer    Role = "player"
	RoleDeveloper Role = "developer"
)

// Valid reports whether the role is one of the known role tags
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleDeveloper
}

// User is a registered account. Username is the unique identity.
type User struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	Role         Role       `json:"role"`
	IsOnline     bool       `json:"is_online"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
