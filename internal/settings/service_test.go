package settings

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
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

type mockRepository struct {
	mu       sync.Mutex
	settings map[string]*Setting
}

func newMockRepository() *mockRepository {
	return &mockRepository{settings: map[string]*Setting{
		"office_start_time": {ID: 1, Key: "office_start_time", Value: "09:30", Category: "attendance", UpdatedAt: time.Now()},
		"grace_minutes":     {ID: 2, Key: "grace_minutes", Value: "15", Category: "attendance", UpdatedAt: time.Now()},
		"company_name":      {ID: 3, Key: "company_name", Value: "Acme", Category: "general", UpdatedAt: time.Now()},
	}}
}

func (m *mockRepository) List(ctx context.Context, category string) ([]Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Setting
	for _, s := range m.settings {
		if category == "" || s.Category == category {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, key string) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: setting not found", httpx.ErrNotFound)
	}
	clone := *s
	return &clone, nil
}

func (m *mockRepository) UpdateValue(ctx context.Context, key, value string) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: setting not found", httpx.ErrNotFound)
	}
	s.Value = value
	clone := *s
	return &clone, nil
}

var _ Repository = (*mockRepository)(nil)

type mockQueue struct {
	mu     sync.Mutex
	emails []string
}

func (q *mockQueue) EnqueueEmail(ctx context.Context, to, subject, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.emails = append(q.emails, to)
	return nil
}

func newTestService(configured bool) (*Service, *mockQueue) {
	queue := &mockQueue{}
	email := EmailSettings{Host: "mail.example.com", Port: 587, From: "noreply@example.com", Configured: configured}
	svc := NewService(newMockRepository(), email, queue, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, queue
}

func admin() shared.Identity {
	return shared.Identity{UserID: 1, Role: string(rbac.RoleAdmin)}
}

func worker() shared.Identity {
	return shared.Identity{UserID: 9, Role: string(rbac.RoleEmployee)}
}

func TestListFilteredByCategory(t *testing.T) {
	svc, _ := newTestService(true)
	items, err := svc.List(context.Background(), admin(), "attendance")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListForbiddenForEmployee(t *testing.T) {
	svc, _ := newTestService(true)
	_, err := svc.List(context.Background(), worker(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))
}

func TestUpdateValue(t *testing.T) {
	svc, _ := newTestService(true)
	s, err := svc.Update(context.Background(), admin(), "grace_minutes", "20")
	require.NoError(t, err)
	assert.Equal(t, "20", s.Value)
}

func TestUpdateUnknownKeyNotFound(t *testing.T) {
	svc, _ := newTestService(true)
	_, err := svc.Update(context.Background(), admin(), "nope", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestSendTestEmail(t *testing.T) {
	svc, queue := newTestService(true)
	require.NoError(t, svc.SendTestEmail(context.Background(), admin(), "dev@example.com"))
	assert.Equal(t, []string{"dev@example.com"}, queue.emails)
}

func TestSendTestEmailUnconfigured(t *testing.T) {
	svc, queue := newTestService(false)
	err := svc.SendTestEmail(context.Background(), admin(), "dev@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Empty(t, queue.emails)
}

func TestEmailReadoutOmitsSecrets(t *testing.T) {
	svc, _ := newTestService(true)
	email, err := svc.Email(context.Background(), admin())
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", email.Host)
}
