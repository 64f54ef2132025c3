package settings

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Enqueuer submits outbound email jobs.
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// EmailSettings is the SMTP readout reported to admins. The password is
// never included.
type EmailSettings struct {
	Host       string `json:"smtp_host"`
	Port       int    `json:"smtp_port"`
	From       string `json:"smtp_from_email"`
	FromName   string `json:"smtp_from_name"`
	Configured bool   `json:"configured"`
}

// Service implements system settings use cases.
type Service struct {
	repo   Repository
	email  EmailSettings
	queue  Enqueuer
	logger *slog.Logger
}

// NewService constructs the settings service.
func NewService(repo Repository, email EmailSettings, queue Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, email: email, queue: queue, logger: logger}
}

// List returns settings visible to admins.
func (s *Service) List(ctx context.Context, id shared.Identity, category string) ([]Setting, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, category)
}

// Get fetches one setting by key.
func (s *Service) Get(ctx context.Context, id shared.Identity, key string) (*Setting, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// Update replaces a setting's value.
func (s *Service) Update(ctx context.Context, id shared.Identity, key, value string) (*Setting, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateValue(ctx, key, value)
	if err != nil {
		return nil, err
	}
	s.logger.Info("setting updated", "key", key, "by", id.UserID)
	return updated, nil
}

// Email reports the SMTP configuration without secrets.
func (s *Service) Email(ctx context.Context, id shared.Identity) (*EmailSettings, error) {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return nil, err
	}
	out := s.email
	return &out, nil
}

// SendTestEmail queues a test message to verify the SMTP setup.
func (s *Service) SendTestEmail(ctx context.Context, id shared.Identity, to string) error {
	if err := rbac.RequireRoles(id, rbac.RoleSuperAdmin, rbac.RoleAdmin); err != nil {
		return err
	}
	if !s.email.Configured {
		return fmt.Errorf("%w: smtp is not configured", httpx.ErrValidation)
	}
	if err := s.queue.EnqueueEmail(ctx, to, "Test email", "This is a test email from the employee management system."); err != nil {
		return fmt.Errorf("enqueue test email: %w", err)
	}
	return nil
}
