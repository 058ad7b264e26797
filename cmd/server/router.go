package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/studyflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/studyflow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		tokenLifetime,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	projectHandler := api.NewProjectHandler(app.projectService, app.logger)
	bookHandler := api.NewBookHandler(app.bookService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)
	statsHandler := api.NewStatsHandler(
		app.userService,
		app.leetcodeClient,
		app.githubClient,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			// Project endpoints, including the nested sub-task tree
			r.Post("/projects", projectHandler.CreateProject)
			r.Get("/projects", projectHandler.ListProjects)
			r.Get("/projects/{id}", projectHandler.GetProject)
			r.Put("/projects/{id}", projectHandler.UpdateProject)
			r.Delete("/projects/{id}", projectHandler.DeleteProject)
			r.Post("/projects/{id}/subtasks", projectHandler.AddSubTask)
			r.Put("/projects/{id}/subtasks/{nodeId}", projectHandler.UpdateSubTask)
			r.Delete("/projects/{id}/subtasks/{nodeId}", projectHandler.RemoveSubTask)

			// Reading list endpoints
			r.Post("/books", bookHandler.CreateBook)
			r.Get("/books", bookHandler.ListBooks)
			r.Get("/books/{id}", bookHandler.GetBook)
			r.Put("/books/{id}", bookHandler.UpdateBook)
			r.Delete("/books/{id}", bookHandler.DeleteBook)

			// Profile and credential endpoints
			r.Get("/users/me", userHandler.GetProfile)
			r.Put("/users/me", userHandler.UpdateProfile)
			r.Post("/users/me/change-password", userHandler.ChangePassword)
			r.Post("/users/me/verify-password", userHandler.VerifyPassword)

			// Dashboard endpoint
			r.Get("/dashboard", dashboardHandler.GetDashboard)

			// External coding-stats endpoints
			r.Get("/leetcode", statsHandler.GetOwnLeetCodeStats)
			r.Get("/leetcode/{username}", statsHandler.GetLeetCodeStats)
			r.Get("/github", statsHandler.GetOwnGitHubStats)
			r.Get("/github/{username}", statsHandler.GetGitHubStats)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
