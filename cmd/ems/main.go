package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rubankumarsankar/new-b/internal/app"
	"github.com/rubankumarsankar/new-b/internal/attendance"
	"github.com/rubankumarsankar/new-b/internal/auth"
	"github.com/rubankumarsankar/new-b/internal/blogs"
	"github.com/rubankumarsankar/new-b/internal/dashboard"
	"github.com/rubankumarsankar/new-b/internal/employees"
	"github.com/rubankumarsankar/new-b/internal/notifications"
	"github.com/rubankumarsankar/new-b/internal/observability"
	"github.com/rubankumarsankar/new-b/internal/platform/cache"
	"github.com/rubankumarsankar/new-b/internal/platform/db"
	"github.com/rubankumarsankar/new-b/internal/projects"
	"github.com/rubankumarsankar/new-b/internal/rbac"
	"github.com/rubankumarsankar/new-b/internal/settings"
	"github.com/rubankumarsankar/new-b/internal/tasks"
	"github.com/rubankumarsankar/new-b/internal/users"
	"github.com/rubankumarsankar/new-b/jobs"
)

// queueMailer routes transactional mail through the background queue.
type queueMailer struct {
	client *jobs.Client
}

func (m queueMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.client.EnqueueEmail(ctx, to, subject, body)
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	policy, err := attendance.ParseOfficePolicy(cfg.OfficeStartTime, cfg.GracePeriodMinutes)
	if err != nil {
		logger.Error("parse office policy", slog.Any("error", err))
		os.Exit(1)
	}

	guard := rbac.Middleware{Logger: logger}
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	codes := auth.NewResetCodeStore(redisClient, cfg.ResetCodeTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, codes, queueMailer{client: queue}, logger)
	authHandler := auth.NewHandler(logger, authService)

	notificationsRepo := notifications.NewRepository(pool)
	notifier := notifications.NewService(notificationsRepo, queue, cfg.TeamsWebhookURL != "", logger)
	notificationsHandler := notifications.NewHandler(logger, notifier)

	employeesService := employees.NewService(employees.NewRepository(pool), logger)
	employeesHandler := employees.NewHandler(logger, employeesService)

	attendanceService := attendance.NewService(attendance.NewRepository(pool), policy, notifier, logger)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, guard)

	projectsService := projects.NewService(projects.NewRepository(pool), logger)
	projectsHandler := projects.NewHandler(logger, projectsService)

	tasksService := tasks.NewService(tasks.NewRepository(pool), notifier, logger)
	tasksHandler := tasks.NewHandler(logger, tasksService)

	blogsService := blogs.NewService(blogs.NewRepository(pool), logger)
	blogsHandler := blogs.NewHandler(logger, blogsService)

	emailSettings := settings.EmailSettings{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		From:       cfg.SMTPFrom,
		FromName:   cfg.SMTPFromName,
		Configured: cfg.SMTPHost != "" && cfg.SMTPFrom != "",
	}
	settingsService := settings.NewService(settings.NewRepository(pool), emailSettings, queue, logger)
	settingsHandler := settings.NewHandler(logger, settingsService)

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	usersService := users.NewService(users.NewRepository(pool), logger)
	usersHandler := users.NewHandler(logger, usersService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthService:          authService,
		AuthHandler:          authHandler,
		EmployeesHandler:     employeesHandler,
		AttendanceHandler:    attendanceHandler,
		ProjectsHandler:      projectsHandler,
		TasksHandler:         tasksHandler,
		BlogsHandler:         blogsHandler,
		NotificationsHandler: notificationsHandler,
		SettingsHandler:      settingsHandler,
		DashboardHandler:     dashboardHandler,
		UsersHandler:         usersHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
