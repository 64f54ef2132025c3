package users

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
	mu    sync.Mutex
	users map[int64]*User
}

func newMockRepository() *mockRepository {
	now := time.Now()
	return &mockRepository{users: map[int64]*User{
		1: {ID: 1, Email: "root@example.com", Username: "root", Role: rbac.RoleSuperAdmin, IsActive: true, CreatedAt: now},
		2: {ID: 2, Email: "dev@example.com", Username: "dev", Role: rbac.RoleEmployee, IsActive: true, CreatedAt: now},
	}}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}

func (m *mockRepository) SetRole(ctx context.Context, id int64, role rbac.Role) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

func (m *mockRepository) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
	}
	u.IsActive = active
	clone := *u
	return &clone, nil
}

var _ Repository = (*mockRepository)(nil)

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func root() shared.Identity {
	return shared.Identity{UserID: 1, Role: string(rbac.RoleSuperAdmin)}
}

func TestListRequiresManageUsers(t *testing.T) {
	svc, _ := newTestService()
	// Plain admins do not hold manage_users.
	_, _, err := svc.List(context.Background(), shared.Identity{UserID: 3, Role: string(rbac.RoleAdmin)}, 20, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrForbidden))

	users, total, err := svc.List(context.Background(), root(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)
}

func TestSetRole(t *testing.T) {
	svc, repo := newTestService()
	u, err := svc.SetRole(context.Background(), root(), 2, rbac.RoleProjectManager)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleProjectManager, u.Role)
	assert.Equal(t, rbac.RoleProjectManager, repo.users[2].Role)
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetRole(context.Background(), root(), 2, rbac.Role("czar"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestSetRoleRejectsSelf(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetRole(context.Background(), root(), 1, rbac.RoleEmployee)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestDeactivateUser(t *testing.T) {
	svc, repo := newTestService()
	u, err := svc.SetActive(context.Background(), root(), 2, false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.False(t, repo.users[2].IsActive)
}

func TestCannotDeactivateSelf(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SetActive(context.Background(), root(), 1, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}
