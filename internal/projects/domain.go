// Package projects manages projects and their lifecycle status.
package projects

import "time"

// Status is the project lifecycle state.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Project is a unit of work employees are assigned tasks under.
type Project struct {
	ID          int64
	Name        string
	Code        string
	Description *string
	Status      Status
	StartDate   *time.Time
	EndDate     *time.Time
	ManagerID   *int64
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
