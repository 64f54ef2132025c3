package employees

import (
	"context"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Service implements employee profile use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the employee service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns employees, optionally filtered by department. Admin only.
func (s *Service) List(ctx context.Context, id shared.Identity, department string) ([]Employee, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin, rbac.RoleProjectManager); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, department)
}

// Get returns one employee. Admins can read anyone; an employee can read
// their own profile.
func (s *Service) Get(ctx context.Context, id shared.Identity, employeeID int64) (*Employee, error) {
	emp, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	err = rbac.Authorize(id, rbac.Check{
		Roles: []rbac.Role{rbac.RoleSuperAdmin, rbac.RoleAdmin, rbac.RoleProjectManager},
		Owner: emp.UserID == id.UserID,
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, id shared.Identity) (*Employee, error) {
	return s.repo.GetByUserID(ctx, id.UserID)
}

// Create adds a profile for an existing user account.
func (s *Service) Create(ctx context.Context, id shared.Identity, emp *Employee) (*Employee, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageEmployees); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, emp)
	if err != nil {
		return nil, err
	}
	s.logger.Info("employee created", "employee_id", created.ID, "code", created.EmployeeCode, "by", id.UserID)
	return created, nil
}

// Update patches a profile.
func (s *Service) Update(ctx context.Context, id shared.Identity, employeeID int64, in UpdateInput) (*Employee, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageEmployees); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, employeeID, in)
}

// Delete removes a profile.
func (s *Service) Delete(ctx context.Context, id shared.Identity, employeeID int64) error {
	if err := rbac.RequirePermission(id, rbac.PermManageEmployees); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, employeeID); err != nil {
		return err
	}
	s.logger.Info("employee deleted", "employee_id", employeeID, "by", id.UserID)
	return nil
}
