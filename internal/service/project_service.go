package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// CreateProjectInput carries the caller-supplied fields for a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// UpdateProjectInput carries a partial project update. Nil fields are
// left unchanged. The sub-task forest is never touched by this path;
// it changes only through the dedicated sub-task operations.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *domain.ProjectStatus
	DueDate     *time.Time
}

// ProjectService provides project CRUD and sub-task tree operations,
// all scoped to an owner. Every sub-task mutation loads the project's
// tree, applies the change in memory, and persists the whole document
// back in one write, returning the full updated project.
type ProjectService interface {
	// CreateProject creates a new project with an empty sub-task forest.
	CreateProject(ctx context.Context, ownerID uuid.UUID, input CreateProjectInput) (*domain.Project, error)

	// GetProject retrieves one of the owner's projects.
	GetProject(ctx context.Context, ownerID, projectID uuid.UUID) (*domain.Project, error)

	// ListProjects returns the owner's projects, optionally restricted
	// to a due-date window.
	ListProjects(ctx context.Context, ownerID uuid.UUID, dueWithin *store.DateRange) ([]*domain.Project, error)

	// UpdateProject applies a partial update to the project's scalar
	// fields and returns the updated project.
	UpdateProject(ctx context.Context, ownerID, projectID uuid.UUID, input UpdateProjectInput) (*domain.Project, error)

	// DeleteProject removes one of the owner's projects, sub-tasks and all.
	DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error

	// AddSubTask inserts a new sub-task under parentID, or at the root
	// level when parentID is uuid.Nil, and returns the updated project.
	AddSubTask(ctx context.Context, ownerID, projectID, parentID uuid.UUID, text string) (*domain.Project, error)

	// UpdateSubTask applies a partial update to one sub-task node and
	// returns the updated project. Completing a node completes its whole
	// subtree; un-completing touches only the node itself.
	UpdateSubTask(ctx context.Context, ownerID, projectID, nodeID uuid.UUID, patch subtask.Patch) (*domain.Project, error)

	// RemoveSubTask excises one sub-task node and its entire subtree and
	// returns the updated project.
	RemoveSubTask(ctx context.Context, ownerID, projectID, nodeID uuid.UUID) (*domain.Project, error)
}

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	projectStore store.ProjectStore
	logger       *slog.Logger
}

// Ensure projectServiceImpl implements ProjectService interface
var _ ProjectService = (*projectServiceImpl)(nil)

// NewProjectService creates a new ProjectService.
// It returns an error if any of the required dependencies are nil.
func NewProjectService(projectStore store.ProjectStore, logger *slog.Logger) (ProjectService, error) {
	if projectStore == nil {
		return nil, domain.NewValidationError("projectStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &projectServiceImpl{
		projectStore: projectStore,
		logger:       logger.With(slog.String("component", "project_service")),
	}, nil
}

// CreateProject implements ProjectService.CreateProject
func (s *projectServiceImpl) CreateProject(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateProjectInput,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := domain.NewProject(ownerID, input.Title)
	if err != nil {
		log.Debug("invalid project data during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	project.Description = input.Description
	project.DueDate = input.DueDate

	if err := s.projectStore.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject implements ProjectService.GetProject
func (s *projectServiceImpl) GetProject(
	ctx context.Context,
	ownerID, projectID uuid.UUID,
) (*domain.Project, error) {
	project, err := s.projectStore.GetForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project: %w", err)
	}
	return project, nil
}

// ListProjects implements ProjectService.ListProjects
func (s *projectServiceImpl) ListProjects(
	ctx context.Context,
	ownerID uuid.UUID,
	dueWithin *store.DateRange,
) ([]*domain.Project, error) {
	projects, err := s.projectStore.List(ctx, ownerID, dueWithin)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject implements ProjectService.UpdateProject
func (s *projectServiceImpl) UpdateProject(
	ctx context.Context,
	ownerID, projectID uuid.UUID,
	input UpdateProjectInput,
) (*domain.Project, error) {
	project, err := s.projectStore.GetForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project for update: %w", err)
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	if err := s.projectStore.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject implements ProjectService.DeleteProject
func (s *projectServiceImpl) DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error {
	if err := s.projectStore.Delete(ctx, ownerID, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddSubTask implements ProjectService.AddSubTask
func (s *projectServiceImpl) AddSubTask(
	ctx context.Context,
	ownerID, projectID, parentID uuid.UUID,
	text string,
) (*domain.Project, error) {
	return s.mutateTree(ctx, ownerID, projectID, "add sub-task",
		func(tree *subtask.Tree) error {
			_, err := tree.Insert(parentID, text)
			return err
		})
}

// UpdateSubTask implements ProjectService.UpdateSubTask
func (s *projectServiceImpl) UpdateSubTask(
	ctx context.Context,
	ownerID, projectID, nodeID uuid.UUID,
	patch subtask.Patch,
) (*domain.Project, error) {
	return s.mutateTree(ctx, ownerID, projectID, "update sub-task",
		func(tree *subtask.Tree) error {
			return tree.Update(nodeID, patch)
		})
}

// RemoveSubTask implements ProjectService.RemoveSubTask
func (s *projectServiceImpl) RemoveSubTask(
	ctx context.Context,
	ownerID, projectID, nodeID uuid.UUID,
) (*domain.Project, error) {
	return s.mutateTree(ctx, ownerID, projectID, "remove sub-task",
		func(tree *subtask.Tree) error {
			return tree.Remove(nodeID)
		})
}

// mutateTree is the shared load-mutate-persist cycle for all sub-task
// operations. Mutation errors surface untouched (ErrNodeNotFound and
// friends map to HTTP statuses in the API layer); nothing is written
// when the mutation fails.
func (s *projectServiceImpl) mutateTree(
	ctx context.Context,
	ownerID, projectID uuid.UUID,
	operation string,
	mutate func(*subtask.Tree) error,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projectStore.GetForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project for %s: %w", operation, err)
	}

	if err := mutate(project.SubTasks); err != nil {
		log.Debug("sub-task mutation rejected",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, err
	}

	if err := s.projectStore.UpdateSubTasks(ctx, ownerID, projectID, project.SubTasks); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", operation, err)
	}

	log.Debug("sub-task mutation applied",
		slog.String("operation", operation),
		slog.String("project_id", projectID.String()),
		slog.Int("node_count", project.SubTasks.Len()))

	return project, nil
}
