// Package dashboard aggregates counts from the other modules into the
// landing-page stat blocks.
package dashboard

import (
	"context"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// AdminStats is the organisation-wide readout.
type AdminStats struct {
	TotalEmployees int `json:"total_employees"`
	PresentToday   int `json:"present_today"`
	LateToday      int `json:"late_today"`
	ActiveProjects int `json:"active_projects"`
	PendingTasks   int `json:"pending_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	DraftBlogs     int `json:"draft_blogs"`
}

// EmployeeStats is the per-user readout.
type EmployeeStats struct {
	PendingTasks        int `json:"pending_tasks"`
	CompletedThisMonth  int `json:"completed_this_month"`
	OverdueTasks        int `json:"overdue_tasks"`
	ActiveProjects      int `json:"active_projects"`
	UnreadNotifications int `json:"unread_notifications"`
}

// Repository exposes the count queries backing the dashboard.
type Repository interface {
	CountEmployees(ctx context.Context) (int, error)
	CountAttendanceToday(ctx context.Context, status string) (int, error)
	CountActiveProjects(ctx context.Context) (int, error)
	CountPendingTasks(ctx context.Context) (int, error)
	CountOverdueTasks(ctx context.Context) (int, error)
	CountDraftBlogs(ctx context.Context) (int, error)

	CountUserPendingTasks(ctx context.Context, userID int64) (int, error)
	CountUserCompletedThisMonth(ctx context.Context, userID int64) (int, error)
	CountUserOverdueTasks(ctx context.Context, userID int64) (int, error)
	CountUserActiveProjects(ctx context.Context, userID int64) (int, error)
	CountUserUnreadNotifications(ctx context.Context, userID int64) (int, error)
}

// Service gathers dashboard statistics.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the dashboard service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Admin returns the organisation-wide stats. The counts are independent,
// so they run concurrently; the first failure cancels the rest.
func (s *Service) Admin(ctx context.Context, id shared.Identity) (*AdminStats, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	var stats AdminStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalEmployees, err = s.repo.CountEmployees(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PresentToday, err = s.repo.CountAttendanceToday(ctx, "present")
		return err
	})
	g.Go(func() (err error) {
		stats.LateToday, err = s.repo.CountAttendanceToday(ctx, "late")
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveProjects, err = s.repo.CountActiveProjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingTasks, err = s.repo.CountPendingTasks(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueTasks, err = s.repo.CountOverdueTasks(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.DraftBlogs, err = s.repo.CountDraftBlogs(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Me returns the caller's personal stats.
func (s *Service) Me(ctx context.Context, id shared.Identity) (*EmployeeStats, error) {
	var stats EmployeeStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PendingTasks, err = s.repo.CountUserPendingTasks(ctx, id.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedThisMonth, err = s.repo.CountUserCompletedThisMonth(ctx, id.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.OverdueTasks, err = s.repo.CountUserOverdueTasks(ctx, id.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveProjects, err = s.repo.CountUserActiveProjects(ctx, id.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.UnreadNotifications, err = s.repo.CountUserUnreadNotifications(ctx, id.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
