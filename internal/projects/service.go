package projects

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Service implements project use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns projects visible to the caller.
func (s *Service) List(ctx context.Context, id shared.Identity, status Status) ([]Project, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", httpx.ErrValidation, status)
	}
	return s.repo.List(ctx, status)
}

// Get fetches one project.
func (s *Service) Get(ctx context.Context, id shared.Identity, projectID int64) (*Project, error) {
	return s.repo.Get(ctx, projectID)
}

// Create adds a project. Admin roles manage all projects; project managers
// hold create_projects.
func (s *Service) Create(ctx context.Context, id shared.Identity, p *Project) (*Project, error) {
	err := rbac.Authorize(id, rbac.Check{
		Roles:      []rbac.Role{rbac.RoleSuperAdmin, rbac.RoleAdmin},
		Permission: rbac.PermCreateProjects,
	})
	if err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", httpx.ErrValidation, p.Status)
	}
	p.CreatedBy = id.UserID
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project_id", created.ID, "code", created.Code, "by", id.UserID)
	return created, nil
}

// Update patches a project. Admins manage any project; a project manager
// may only touch projects they manage.
func (s *Service) Update(ctx context.Context, id shared.Identity, projectID int64, in UpdateInput) (*Project, error) {
	current, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ownManaged := rbac.HasPermission(rbac.Role(id.Role), rbac.PermManageOwnProjects) &&
		current.ManagerID != nil && *current.ManagerID == id.UserID
	err = rbac.Authorize(id, rbac.Check{
		Permission: rbac.PermManageProjects,
		Owner:      ownManaged,
	})
	if err != nil {
		return nil, err
	}
	if in.Status.Set() && !in.Status.Value().Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", httpx.ErrValidation, in.Status.Value())
	}
	return s.repo.Update(ctx, projectID, in)
}

// Delete removes a project. Admin roles only.
func (s *Service) Delete(ctx context.Context, id shared.Identity, projectID int64) error {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", projectID, "by", id.UserID)
	return nil
}
