package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rubankumarsankar/new-b/internal/app"
	"github.com/rubankumarsankar/new-b/internal/attendance"
	"github.com/rubankumarsankar/new-b/internal/auth"
	"github.com/rubankumarsankar/new-b/internal/blogs"
	"github.com/rubankumarsankar/new-b/internal/dashboard"
	"github.com/rubankumarsankar/new-b/internal/employees"
	"github.com/rubankumarsankar/new-b/internal/notifications"
	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/projects"
	"github.com/rubankumarsankar/new-b/internal/settings"
	"github.com/rubankumarsankar/new-b/internal/tasks"
	"github.com/rubankumarsankar/new-b/internal/users"
)

type userStore struct {
	users []*auth.User
}

func (s *userStore) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *userStore) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	user.ID = int64(len(s.users) + 1)
	s.users = append(s.users, user)
	return user, nil
}

func (s *userStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	for _, u := range s.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return httpx.ErrNotFound
}

type employeeStore struct {
	profiles []employees.Employee
}

func (s *employeeStore) List(_ context.Context, _ string) ([]employees.Employee, error) {
	return s.profiles, nil
}

func (s *employeeStore) Get(_ context.Context, id int64) (*employees.Employee, error) {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return &s.profiles[i], nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *employeeStore) GetByUserID(_ context.Context, userID int64) (*employees.Employee, error) {
	for i := range s.profiles {
		if s.profiles[i].UserID == userID {
			return &s.profiles[i], nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (s *employeeStore) Create(_ context.Context, emp *employees.Employee) (*employees.Employee, error) {
	emp.ID = int64(len(s.profiles) + 1)
	s.profiles = append(s.profiles, *emp)
	return emp, nil
}

func (s *employeeStore) Update(_ context.Context, _ int64, _ employees.UpdateInput) (*employees.Employee, error) {
	return nil, httpx.ErrNotFound
}

func (s *employeeStore) Delete(_ context.Context, _ int64) error {
	return httpx.ErrNotFound
}

// buildServer assembles the real router around in-memory stores. Routes not
// exercised here get inert handlers.
func buildServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	accounts := &userStore{users: []*auth.User{{
		ID:           7,
		Email:        "maya@ems.local",
		Username:     "maya",
		PasswordHash: string(hash),
		Role:         "employee",
		IsActive:     true,
	}}}
	profiles := &employeeStore{profiles: []employees.Employee{{
		ID:           1,
		UserID:       7,
		EmployeeCode: "EMP-001",
		FirstName:    "Maya",
		LastName:     "Iyer",
		Email:        "maya@ems.local",
		Username:     "maya",
		Role:         "employee",
	}}}

	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	authService := auth.NewService(accounts, tokens, nil, nil, logger)

	return app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               &app.Config{AppRequestTimeout: 5 * time.Second},
		AuthService:          authService,
		AuthHandler:          auth.NewHandler(logger, authService),
		EmployeesHandler:     employees.NewHandler(logger, employees.NewService(profiles, logger)),
		AttendanceHandler:    &attendance.Handler{},
		ProjectsHandler:      &projects.Handler{},
		TasksHandler:         &tasks.Handler{},
		BlogsHandler:         &blogs.Handler{},
		NotificationsHandler: &notifications.Handler{},
		SettingsHandler:      &settings.Handler{},
		DashboardHandler:     &dashboard.Handler{},
		UsersHandler:         &users.Handler{},
	})
}

func TestLoginAndFetchOwnProfile(t *testing.T) {
	server := buildServer(t)

	body := bytes.NewBufferString(`{"username":"maya","password":"opensesame1"}`)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.Equal(t, "bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var profile struct {
		EmployeeCode string `json:"employee_code"`
		Username     string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	require.Equal(t, "EMP-001", profile.EmployeeCode)
	require.Equal(t, "maya", profile.Username)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := buildServer(t)

	body := bytes.NewBufferString(`{"username":"maya","password":"wrong-password"}`)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server := buildServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/employees/me", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestHealthzIsPublic(t *testing.T) {
	server := buildServer(t)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
