package tasks

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Notifier receives task assignment events. Delivery is best effort.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, assigneeUserID int64, taskTitle string)
}

// Service implements task use cases.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the task service.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

// List returns tasks. Employees see only tasks assigned to them.
func (s *Service) List(ctx context.Context, id shared.Identity, f Filter) ([]Task, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", httpx.ErrValidation, f.Status)
	}
	if rbac.Role(id.Role) == rbac.RoleEmployee {
		f.AssigneeID = id.UserID
	}
	return s.repo.List(ctx, f)
}

// Mine returns the caller's assigned tasks.
func (s *Service) Mine(ctx context.Context, id shared.Identity, status Status) ([]Task, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", httpx.ErrValidation, status)
	}
	return s.repo.List(ctx, Filter{AssigneeID: id.UserID, Status: status})
}

// Get fetches one task. Employees may only read their own.
func (s *Service) Get(ctx context.Context, id shared.Identity, taskID int64) (*Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	owner := t.AssigneeID != nil && *t.AssigneeID == id.UserID
	err = rbac.Authorize(id, rbac.Check{
		Roles: []rbac.Role{rbac.RoleSuperAdmin, rbac.RoleAdmin, rbac.RoleProjectManager},
		Owner: owner || t.CreatedBy == id.UserID,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create adds a task and notifies the assignee, if any.
func (s *Service) Create(ctx context.Context, id shared.Identity, t *Task) (*Task, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageTasks); err != nil {
		return nil, err
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", httpx.ErrValidation, t.Status)
	}
	if !t.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown task priority %q", httpx.ErrValidation, t.Priority)
	}
	t.CreatedBy = id.UserID
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	if created.AssigneeID != nil {
		s.notifier.NotifyTaskAssigned(ctx, *created.AssigneeID, created.Title)
	}
	return created, nil
}

// Update patches a task. Moving into completed stamps completed_at; moving
// out of it clears the stamp. A change of assignee notifies the new one.
func (s *Service) Update(ctx context.Context, id shared.Identity, taskID int64, in UpdateInput) (*Task, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageTasks); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if in.Status.Set() {
		next := in.Status.Value()
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown task status %q", httpx.ErrValidation, next)
		}
		switch {
		case next == StatusCompleted && current.Status != StatusCompleted:
			now := s.now()
			in.CompletedAt = shared.PatchOf(&now)
		case next != StatusCompleted && current.Status == StatusCompleted:
			in.CompletedAt = shared.PatchOf[*time.Time](nil)
		}
	}
	if in.Priority.Set() && !in.Priority.Value().Valid() {
		return nil, fmt.Errorf("%w: unknown task priority %q", httpx.ErrValidation, in.Priority.Value())
	}

	updated, err := s.repo.Update(ctx, taskID, in)
	if err != nil {
		return nil, err
	}
	if in.AssigneeID.Set() && updated.AssigneeID != nil {
		prev := current.AssigneeID
		if prev == nil || *prev != *updated.AssigneeID {
			s.notifier.NotifyTaskAssigned(ctx, *updated.AssigneeID, updated.Title)
		}
	}
	return updated, nil
}

// UpdateStatus lets an assignee move their own task through the workflow.
func (s *Service) UpdateStatus(ctx context.Context, id shared.Identity, taskID int64, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", httpx.ErrValidation, status)
	}
	current, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	owner := current.AssigneeID != nil && *current.AssigneeID == id.UserID
	err = rbac.Authorize(id, rbac.Check{
		Roles: []rbac.Role{rbac.RoleSuperAdmin, rbac.RoleAdmin, rbac.RoleProjectManager},
		Owner: owner,
	})
	if err != nil {
		return nil, err
	}
	in := UpdateInput{Status: shared.PatchOf(status)}
	switch {
	case status == StatusCompleted && current.Status != StatusCompleted:
		now := s.now()
		in.CompletedAt = shared.PatchOf(&now)
	case status != StatusCompleted && current.Status == StatusCompleted:
		in.CompletedAt = shared.PatchOf[*time.Time](nil)
	}
	return s.repo.Update(ctx, taskID, in)
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id shared.Identity, taskID int64) error {
	if err := rbac.RequirePermission(id, rbac.PermManageTasks); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", taskID, "by", id.UserID)
	return nil
}
