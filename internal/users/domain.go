// Package users implements administrative user account management.
// Self-service signup and login live in the auth package; this one is
// for the manage_users permission holders.
package users

import (
	"time"

	"github.com/rubankumarsankar/new-b/internal/rbac"
)

// User is an account as seen by an administrator.
type User struct {
	ID        int64
	Email     string
	Username  string
	Role      rbac.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
