package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend. The sub-task
// forest is stored alongside the project row as a single JSONB
// document, so every write to it replaces the whole document in one
// statement.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a new PostgreSQL implementation of the ProjectStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure PostgresProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*PostgresProjectStore)(nil)

const projectColumns = `id, owner_id, title, description, status, due_date, sub_tasks, created_at, updated_at`

// scanProject reads one project row, decoding the JSONB sub-task
// document into the in-memory tree.
func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var project domain.Project
	var status string
	var subTasksDoc []byte

	err := row.Scan(
		&project.ID,
		&project.OwnerID,
		&project.Title,
		&project.Description,
		&status,
		&project.DueDate,
		&subTasksDoc,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.Status = domain.ProjectStatus(status)

	tree := subtask.NewTree()
	if len(subTasksDoc) > 0 {
		if err := json.Unmarshal(subTasksDoc, tree); err != nil {
			return nil, fmt.Errorf("failed to decode sub-task document for project %s: %w",
				project.ID, err)
		}
	}
	project.SubTasks = tree

	return &project, nil
}

// Create implements store.ProjectStore.Create
// It saves a new project, including its sub-task document.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	subTasksDoc, err := json.Marshal(project.SubTasks)
	if err != nil {
		log.Error("failed to encode sub-task document",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.OwnerID,
		project.Title,
		project.Description,
		project.Status,
		project.DueDate,
		subTasksDoc,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during project creation",
				slog.String("error", err.Error()),
				slog.String("project_id", project.ID.String()),
				slog.String("owner_id", project.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, project.OwnerID)
		}

		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	log.Info("project created successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("owner_id", project.OwnerID.String()))
	return nil
}

// GetForOwner implements store.ProjectStore.GetForOwner
// Returns store.ErrProjectNotFound if no such project is owned by ownerID.
func (s *PostgresProjectStore) GetForOwner(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`

	project, err := scanProject(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found",
				slog.String("project_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	return project, nil
}

// List implements store.ProjectStore.List
// It returns the owner's projects, newest first, optionally restricted
// to those due inside dueWithin.
// Returns an empty slice if no projects match the criteria.
func (s *PostgresProjectStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	dueWithin *store.DateRange,
) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
	`
	args := []any{ownerID}

	if dueWithin != nil {
		args = append(args, dueWithin.Start)
		query += fmt.Sprintf(" AND due_date >= $%d", len(args))
		args = append(args, dueWithin.End)
		query += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query projects",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects, err := collectProjects(rows)
	if err != nil {
		log.Error("failed to scan project rows",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	log.Debug("listed projects",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(projects)))
	return projects, nil
}

// Update implements store.ProjectStore.Update
// It rewrites the project's scalar fields only. The sub-task document
// is written exclusively by UpdateSubTasks so a stale in-memory tree
// can never overwrite concurrent tree edits.
// Returns store.ErrProjectNotFound if no such project is owned by the owner.
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during update",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	project.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE projects
		SET title = $1, description = $2, status = $3, due_date = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		project.Title,
		project.Description,
		project.Status,
		project.DueDate,
		project.UpdatedAt,
		project.ID,
		project.OwnerID,
	)

	if err != nil {
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("project not found for update",
			slog.String("project_id", project.ID.String()),
			slog.String("owner_id", project.OwnerID.String()))
		return store.ErrProjectNotFound
	}

	log.Info("project updated successfully",
		slog.String("project_id", project.ID.String()))
	return nil
}

// UpdateSubTasks implements store.ProjectStore.UpdateSubTasks
// It replaces the project's sub-task document in a single statement.
// Returns store.ErrProjectNotFound if no such project is owned by ownerID.
func (s *PostgresProjectStore) UpdateSubTasks(
	ctx context.Context,
	ownerID, id uuid.UUID,
	tree *subtask.Tree,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subTasksDoc, err := json.Marshal(tree)
	if err != nil {
		log.Error("failed to encode sub-task document",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	query := `
		UPDATE projects
		SET sub_tasks = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`

	result, err := s.db.ExecContext(ctx, query, subTasksDoc, time.Now().UTC(), id, ownerID)
	if err != nil {
		log.Error("failed to update sub-task document",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("project not found for sub-task update",
			slog.String("project_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrProjectNotFound
	}

	log.Debug("sub-task document updated",
		slog.String("project_id", id.String()),
		slog.Int("node_count", tree.Len()))
	return nil
}

// Delete implements store.ProjectStore.Delete
// Returns store.ErrProjectNotFound if no such project is owned by ownerID.
func (s *PostgresProjectStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM projects
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("project not found for delete",
			slog.String("project_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrProjectNotFound
	}

	log.Info("project deleted successfully",
		slog.String("project_id", id.String()))
	return nil
}

// ListInProgressDueBetween implements store.ProjectStore.ListInProgressDueBetween
// It returns in-progress projects due within [start, end], due date ascending.
func (s *PostgresProjectStore) ListInProgressDueBetween(
	ctx context.Context,
	ownerID uuid.UUID,
	start, end time.Time,
	limit int,
) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		  AND status = $2
		  AND due_date IS NOT NULL
		  AND due_date >= $3
		  AND due_date <= $4
		ORDER BY due_date ASC
	`
	args := []any{ownerID, domain.ProjectStatusInProgress, start, end}

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query in-progress projects by due date",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects, err := collectProjects(rows)
	if err != nil {
		log.Error("failed to scan project rows",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return projects, nil
}

// collectProjects drains the rows into a slice, returning an empty
// slice rather than nil when nothing matched.
func collectProjects(rows *sql.Rows) ([]*domain.Project, error) {
	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}
