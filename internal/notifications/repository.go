package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// Repository defines persistence for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	EmailForUser(ctx context.Context, userID int64) (string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const notificationColumns = `id, user_id, kind, title, message, read, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: notification not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts a notification.
func (r *PGRepository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, kind, title, message, read, created_at)
		 VALUES ($1, $2, $3, $4, false, now())
		 RETURNING `+notificationColumns,
		n.UserID, n.Kind, n.Title, n.Message)
	return scanNotification(row)
}

// ListByUser returns the user's notifications, newest first, with a total.
func (r *PGRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UnreadCount returns how many notifications the user has not read.
func (r *PGRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`, userID).Scan(&count)
	return count, err
}

// MarkRead flags one notification as read. Scoped to the owner.
func (r *PGRepository) MarkRead(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification not found", httpx.ErrNotFound)
	}
	return nil
}

// MarkAllRead flags every unread notification of the user as read.
func (r *PGRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	return err
}

// EmailForUser resolves a user's email address for channel delivery.
func (r *PGRepository) EmailForUser(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return "", err
	}
	return email, nil
}

var _ Repository = (*PGRepository)(nil)
