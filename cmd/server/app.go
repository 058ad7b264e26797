package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/studyflow-api/internal/config"
	"github.com/phrazzld/studyflow-api/internal/platform/github"
	"github.com/phrazzld/studyflow-api/internal/platform/leetcode"
	"github.com/phrazzld/studyflow-api/internal/platform/postgres"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/service/auth"
	"github.com/phrazzld/studyflow-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces for proper abstraction)
	userStore    store.UserStore
	taskStore    store.TaskStore
	projectStore store.ProjectStore
	bookStore    store.BookStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	taskService      service.TaskService
	projectService   service.ProjectService
	bookService      service.BookService
	dashboardService service.DashboardService

	// External stats clients
	leetcodeClient *leetcode.Client
	githubClient   *github.Client
}

// newApplication creates a new application instance with all
// dependencies initialized. It accepts the core dependencies that must
// be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	bcryptCost := cfg.Auth.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	app.userStore = postgres.NewPostgresUserStore(db, bcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.bookStore = postgres.NewPostgresBookStore(db, logger)

	statsTimeout := time.Duration(cfg.Stats.TimeoutSeconds) * time.Second
	app.leetcodeClient = leetcode.NewClient(cfg.Stats.LeetCodeBaseURL, statsTimeout, logger)
	app.githubClient = github.NewClient(cfg.Stats.GitHubToken, logger)

	app.userService = service.NewUserService(app.userStore, app.passwordVerifier, db, logger)

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.projectService, err = service.NewProjectService(app.projectStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}

	app.bookService, err = service.NewBookService(app.bookStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	app.dashboardService, err = service.NewDashboardService(
		app.userStore,
		app.taskStore,
		app.projectStore,
		app.bookStore,
		app.leetcodeClient,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
