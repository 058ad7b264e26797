package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Frequency   domain.TaskFrequency
	Category    string
	Target      *int
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Frequency   *domain.TaskFrequency
	Status      *domain.TaskStatus
	Category    *string
	Progress    *int
	Target      *int
}

// TaskService provides task CRUD operations scoped to an owner.
type TaskService interface {
	// CreateTask creates a new task for the owner.
	CreateTask(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves one of the owner's tasks.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks returns the owner's tasks matching the filter.
	ListTasks(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// UpdateTask applies a partial update to one of the owner's tasks
	// and returns the updated task.
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// DeleteTask removes one of the owner's tasks.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, input.Title, input.Frequency)
	if err != nil {
		log.Debug("invalid task data during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.Category = input.Category
	task.Target = input.Target

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask
// It follows the pattern of retrieving the complete task, applying the
// changed fields, and writing the whole row back.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task for update: %w", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Frequency != nil {
		task.Frequency = *input.Frequency
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Progress != nil {
		task.Progress = *input.Progress
	}
	if input.Target != nil {
		task.Target = input.Target
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Debug("task update failed",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
