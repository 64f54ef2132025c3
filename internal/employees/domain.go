// Package employees manages HR records linked one-to-one with user
// accounts.
package employees

import "time"

// Employee is an HR profile. Exactly one may exist per user.
type Employee struct {
	ID            int64
	UserID        int64
	EmployeeCode  string
	FirstName     string
	LastName      string
	Phone         *string
	Department    *string
	Designation   *string
	DateOfJoining *time.Time
	DateOfBirth   *time.Time
	Address       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined from the user account for read payloads.
	Email    string
	Username string
	Role     string
}
