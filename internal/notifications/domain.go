// Package notifications stores per-user notifications and dispatches
// copies to external channels through the job queue.
package notifications

import "time"

// Kind labels what triggered a notification.
type Kind string

const (
	KindLateArrival  Kind = "late_arrival"
	KindTaskAssigned Kind = "task_assigned"
	KindGeneral      Kind = "general"
)

// Notification is a single per-user message.
type Notification struct {
	ID        int64
	UserID    int64
	Kind      Kind
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
