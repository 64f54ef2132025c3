package auth

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
)

// Mailer delivers transactional mail. Implementations must be best effort;
// the service logs and swallows their failures.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
	codes  *ResetCodeStore
	mailer Mailer
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, codes *ResetCodeStore, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, codes: codes, mailer: mailer, logger: logger}
}

// RegisterInput carries the register payload.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// Login validates username/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("%w: incorrect username or password", httpx.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: incorrect username or password", httpx.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("%w: inactive user", httpx.ErrUnauthorized)
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a user account. The role defaults to employee and must
// belong to the closed role set.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Role == "" {
		in.Role = string(rbac.RoleEmployee)
	}
	if !rbac.Role(in.Role).Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, in.Role)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, &User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
	})
}

// ForgotPassword issues a reset code and mails it. Mail delivery is best
// effort and never fails the request.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: no account for this email", httpx.ErrNotFound)
		}
		return err
	}
	code, err := s.codes.Issue(ctx, user.Email)
	if err != nil {
		return err
	}
	subject := "Password reset code"
	body := fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires shortly.\n\nIf you did not request a reset, contact IT immediately.", user.Username, code)
	if err := s.mailer.SendEmail(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("send reset code", slog.String("email", user.Email), slog.Any("error", err))
	}
	return nil
}

// ResetPassword redeems a code and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", httpx.ErrValidation)
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.codes.Redeem(ctx, email, code); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

// ResolveIdentity validates a bearer token and loads the account behind it.
// The role comes from the database, not the token, so a role change takes
// effect before the token expires.
func (s *Service) ResolveIdentity(ctx context.Context, rawToken string) (*User, error) {
	userID, _, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not validate credentials", httpx.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: inactive user", httpx.ErrUnauthorized)
	}
	return user, nil
}
