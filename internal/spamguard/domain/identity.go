package domain

import "time"

// Roles an identity can carry.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Identity struct {
	ID           string
	Email        string // normalised, unique
	PasswordHash string // argon2id PHC string, or a legacy bcrypt hash
	Role         string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// IsAdmin reports whether the identity may use the admin read paths.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
