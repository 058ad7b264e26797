// Package main implements the entry point for the StudyFlow API
// server, a personal productivity tracker covering tasks, projects
// with nested sub-tasks, a reading list, and a daily dashboard that
// folds in external coding stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/studyflow-api/internal/config"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version, create) instead of the server")
	migrationName := flag.String("migration-name", "",
		"name for the new migration when using -migrate create")
	flag.Parse()

	if err := run(*migrateCmd, *migrationName); err != nil {
		log.Fatalf("studyflow-api: %v", err)
	}
}

// run loads configuration, sets up logging, and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd, migrationName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd, migrationName)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		// The application owns the connection once construction
		// succeeds; on failure it is still ours to close.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
