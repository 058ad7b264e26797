package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/studyflow-api/internal/config"
)

// migrationsDir is the default location of the SQL migration files,
// relative to the working directory.
const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logger interface to structured logging.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error("migration fatal error", "message", fmt.Sprintf(strings.TrimSpace(format), v...))
	os.Exit(1)
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info("migration", "message", fmt.Sprintf(strings.TrimSpace(format), v...))
}

// runMigrations executes a goose migration command against the
// configured database. Each invocation carries a correlation ID so the
// whole operation can be traced through the logs.
func runMigrations(cfg *config.Config, command, migrationName string) error {
	migrationLogger := slog.Default().With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("starting migration operation")

	goose.SetLogger(&slogGooseLogger{})

	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			migrationLogger.Error("error closing database connection", "error", closeErr)
		}
		migrationLogger.Info("migration operation completed",
			"duration_ms", time.Since(startTime).Milliseconds())
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	dir, err := resolveMigrationsDir()
	if err != nil {
		return err
	}
	migrationLogger.Info("using migrations directory", "path", dir)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "reset":
		err = goose.Reset(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	case "create":
		if migrationName == "" {
			return fmt.Errorf("migration name is required for 'create' command")
		}
		err = goose.Create(db, dir, migrationName, "sql")
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, version, or create)",
			command,
		)
	}

	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	migrationLogger.Info("migration command executed successfully")
	return nil
}

// resolveMigrationsDir locates the migrations directory, preferring
// the working directory so the server can run from the repository root.
func resolveMigrationsDir() (string, error) {
	if info, err := os.Stat(migrationsDir); err == nil && info.IsDir() {
		return filepath.Abs(migrationsDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}

	// Walk up a few levels in case the binary runs from a subdirectory.
	for dir := cwd; ; {
		candidate := filepath.Join(dir, migrationsDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("migrations directory not found from %s", cwd)
}
