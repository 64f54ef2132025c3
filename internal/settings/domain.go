// Package settings exposes the mutable system configuration stored in
// the database.
package settings

import "time"

// Setting is one key/value pair. Keys are unique.
type Setting struct {
	ID          int64
	Key         string
	Value       string
	Category    string
	Description *string
	UpdatedAt   time.Time
}
