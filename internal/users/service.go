package users

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Service implements administrative account management. Every operation
// requires the manage_users permission; roles only change through the
// explicit SetRole call.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the user administration service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns accounts.
func (s *Service) List(ctx context.Context, id shared.Identity, limit, offset int) ([]User, int, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageUsers); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, limit, offset)
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id shared.Identity, userID int64) (*User, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageUsers); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// SetRole changes an account's role.
func (s *Service) SetRole(ctx context.Context, id shared.Identity, userID int64, role rbac.Role) (*User, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageUsers); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
	}
	if userID == id.UserID {
		return nil, fmt.Errorf("%w: cannot change your own role", httpx.ErrValidation)
	}
	updated, err := s.repo.SetRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "user_id", userID, "role", role, "by", id.UserID)
	return updated, nil
}

// SetActive flips an account's active flag. Deactivated accounts fail
// authentication on their next request.
func (s *Service) SetActive(ctx context.Context, id shared.Identity, userID int64, active bool) (*User, error) {
	if err := rbac.RequirePermission(id, rbac.PermManageUsers); err != nil {
		return nil, err
	}
	if userID == id.UserID {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", httpx.ErrValidation)
	}
	updated, err := s.repo.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user active flag changed", "user_id", userID, "active", active, "by", id.UserID)
	return updated, nil
}
