package notifications

import (
	"context"
	"fmt"
	"time"

	"log/slog"
)

// Enqueuer submits delivery jobs to the background queue.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
	EnqueueTeams(ctx context.Context, title, text string) error
}

// Service persists notifications and fans them out to external channels.
// Channel delivery is best effort: a failed enqueue is logged, never
// surfaced to the request that triggered it.
type Service struct {
	repo    Repository
	queue   Enqueuer
	logger  *slog.Logger
	webhook bool
}

// NewService constructs the notification service. webhookEnabled controls
// whether Teams copies are produced at all.
func NewService(repo Repository, queue Enqueuer, webhookEnabled bool, logger *slog.Logger) *Service {
	return &Service{repo: repo, queue: queue, webhook: webhookEnabled, logger: logger}
}

// Notify persists a notification and dispatches channel copies.
func (s *Service) Notify(ctx context.Context, userID int64, kind Kind, title, message string) {
	n, err := s.repo.Create(ctx, &Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
	})
	if err != nil {
		s.logger.Error("notification persist failed", "user_id", userID, "kind", kind, "error", err)
		return
	}
	s.dispatch(ctx, n)
}

func (s *Service) dispatch(ctx context.Context, n *Notification) {
	email, err := s.repo.EmailForUser(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("notification email lookup failed", "user_id", n.UserID, "error", err)
	} else if err := s.queue.EnqueueEmail(ctx, email, n.Title, n.Message); err != nil {
		s.logger.Warn("notification email enqueue failed", "user_id", n.UserID, "error", err)
	}
	if s.webhook {
		if err := s.queue.EnqueueTeams(ctx, n.Title, n.Message); err != nil {
			s.logger.Warn("notification teams enqueue failed", "user_id", n.UserID, "error", err)
		}
	}
}

// NotifyLateArrival records a late check-in notification.
func (s *Service) NotifyLateArrival(ctx context.Context, userID int64, checkIn time.Time) {
	s.Notify(ctx, userID, KindLateArrival,
		"Late arrival recorded",
		fmt.Sprintf("Checked in late at %s.", checkIn.Format("15:04")))
}

// NotifyTaskAssigned records a task assignment notification.
func (s *Service) NotifyTaskAssigned(ctx context.Context, assigneeUserID int64, taskTitle string) {
	s.Notify(ctx, assigneeUserID, KindTaskAssigned,
		"New task assigned",
		fmt.Sprintf("You have been assigned the task %q.", taskTitle))
}

// List returns the caller's notifications with a total count.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// UnreadCount returns the caller's unread notification count.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead flags one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead flags all of the caller's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
