package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

type mockRepository struct {
	mu            sync.Mutex
	notifications map[int64]*Notification
	emails        map[int64]string
	nextID        int64
	failCreate    bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		notifications: make(map[int64]*Notification),
		emails:        make(map[int64]string),
		nextID:        1,
	}
}

func (m *mockRepository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return nil, errors.New("insert failed")
	}
	stored := *n
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	m.nextID++
	m.notifications[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (m *mockRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) MarkRead(ctx context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("%w: notification not found", httpx.ErrNotFound)
	}
	n.Read = true
	return nil
}

func (m *mockRepository) MarkAllRead(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *mockRepository) EmailForUser(ctx context.Context, userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, ok := m.emails[userID]
	if !ok {
		return "", fmt.Errorf("%w: user not found", httpx.ErrNotFound)
	}
	return email, nil
}

var _ Repository = (*mockRepository)(nil)

type mockQueue struct {
	mu       sync.Mutex
	emails   []string
	teams    []string
	failNext bool
}

func (q *mockQueue) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failNext {
		return errors.New("queue unavailable")
	}
	q.emails = append(q.emails, to)
	return nil
}

func (q *mockQueue) EnqueueTeams(ctx context.Context, title, text string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failNext {
		return errors.New("queue unavailable")
	}
	q.teams = append(q.teams, title)
	return nil
}

func newTestService(webhook bool) (*Service, *mockRepository, *mockQueue) {
	repo := newMockRepository()
	repo.emails[7] = "seven@example.com"
	queue := &mockQueue{}
	svc := NewService(repo, queue, webhook, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo, queue
}

func TestNotifyPersistsAndEnqueues(t *testing.T) {
	svc, repo, queue := newTestService(true)
	svc.Notify(context.Background(), 7, KindGeneral, "Hello", "Body")

	assert.Len(t, repo.notifications, 1)
	assert.Equal(t, []string{"seven@example.com"}, queue.emails)
	assert.Equal(t, []string{"Hello"}, queue.teams)
}

func TestNotifyWithoutWebhookSkipsTeams(t *testing.T) {
	svc, _, queue := newTestService(false)
	svc.Notify(context.Background(), 7, KindGeneral, "Hello", "Body")
	assert.Empty(t, queue.teams)
	assert.Len(t, queue.emails, 1)
}

func TestEnqueueFailureStillPersists(t *testing.T) {
	svc, repo, queue := newTestService(true)
	queue.failNext = true
	svc.Notify(context.Background(), 7, KindGeneral, "Hello", "Body")
	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, queue.emails)
}

func TestLateArrivalNotification(t *testing.T) {
	svc, repo, _ := newTestService(false)
	svc.NotifyLateArrival(context.Background(), 7, time.Date(2025, 3, 3, 9, 50, 0, 0, time.UTC))

	require.Len(t, repo.notifications, 1)
	for _, n := range repo.notifications {
		assert.Equal(t, KindLateArrival, n.Kind)
		assert.Contains(t, n.Message, "09:50")
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, repo, _ := newTestService(false)
	svc.Notify(context.Background(), 7, KindGeneral, "Hello", "Body")

	var id int64
	for _, n := range repo.notifications {
		id = n.ID
	}
	err := svc.MarkRead(context.Background(), 8, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))

	require.NoError(t, svc.MarkRead(context.Background(), 7, id))
	count, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllRead(t *testing.T) {
	svc, _, _ := newTestService(false)
	svc.Notify(context.Background(), 7, KindGeneral, "One", "Body")
	svc.Notify(context.Background(), 7, KindGeneral, "Two", "Body")

	count, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkAllRead(context.Background(), 7))
	count, err = svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, count)
}
