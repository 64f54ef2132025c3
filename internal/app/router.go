package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rubankumarsankar/new-b/internal/attendance"
	"github.com/rubankumarsankar/new-b/internal/auth"
	"github.com/rubankumarsankar/new-b/internal/blogs"
	"github.com/rubankumarsankar/new-b/internal/dashboard"
	"github.com/rubankumarsankar/new-b/internal/employees"
	"github.com/rubankumarsankar/new-b/internal/notifications"
	"github.com/rubankumarsankar/new-b/internal/observability"
	"github.com/rubankumarsankar/new-b/internal/projects"
	"github.com/rubankumarsankar/new-b/internal/settings"
	"github.com/rubankumarsankar/new-b/internal/tasks"
	"github.com/rubankumarsankar/new-b/internal/users"
	"github.com/rubankumarsankar/new-b/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthService          *auth.Service
	AuthHandler          *auth.Handler
	EmployeesHandler     *employees.Handler
	AttendanceHandler    *attendance.Handler
	ProjectsHandler      *projects.Handler
	TasksHandler         *tasks.Handler
	BlogsHandler         *blogs.Handler
	NotificationsHandler *notifications.Handler
	SettingsHandler      *settings.Handler
	DashboardHandler     *dashboard.Handler
	UsersHandler         *users.Handler
	JobHandler           *jobs.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router serving the REST API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)

		// Everything below requires a bearer token.
		api.Group(func(private chi.Router) {
			private.Use(auth.Authenticator(params.AuthService))
			private.Route("/employees", params.EmployeesHandler.MountRoutes)
			private.Route("/attendance", params.AttendanceHandler.MountRoutes)
			private.Route("/projects", params.ProjectsHandler.MountRoutes)
			private.Route("/tasks", params.TasksHandler.MountRoutes)
			private.Route("/blogs", params.BlogsHandler.MountRoutes)
			private.Route("/notifications", params.NotificationsHandler.MountRoutes)
			private.Route("/settings", params.SettingsHandler.MountRoutes)
			private.Route("/dashboard", params.DashboardHandler.MountRoutes)
			private.Route("/users", params.UsersHandler.MountRoutes)
			if params.JobHandler != nil {
				private.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
