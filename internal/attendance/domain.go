// Package attendance tracks daily check-in/check-out records and derives
// status and working hours from the office policy.
package attendance

import "time"

// Status classifies a day's attendance.
type Status string

// present and late are derived at check-in. half_day, absent and leave are
// only ever written by the administrative override, never by the policy.
const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

// Record is one attendance row. At most one exists per (employee, day).
type Record struct {
	ID           int64
	EmployeeID   int64
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	Status       Status
	WorkingHours float64
	Remarks      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DayEntry is a record joined with the employee's name for the daily
// overview.
type DayEntry struct {
	Record
	EmployeeName string
}

// DayOf truncates t to midnight in its location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
