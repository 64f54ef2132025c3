package auth

import "time"

// User represents a user account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
