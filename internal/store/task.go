package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyflow-api/internal/domain"
)

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	Category  *string
	Frequency *domain.TaskFrequency
	Status    *domain.TaskStatus
}

// TaskStore defines the interface for task data persistence. Every
// operation is scoped to an owner: a task owned by another user is
// indistinguishable from a missing one.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves one task by (id, ownerID).
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, newest first.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update rewrites the task row identified by (task.ID, task.OwnerID).
	// Returns ErrTaskNotFound if no such task is owned by the task's owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task identified by (id, ownerID).
	// Returns ErrTaskNotFound if no such task is owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListPendingDueBetween returns the owner's pending tasks whose due
	// date falls in [start, end], ordered by due date ascending, capped
	// at limit (0 means no cap).
	ListPendingDueBetween(
		ctx context.Context,
		ownerID uuid.UUID,
		start, end time.Time,
		limit int,
	) ([]*domain.Task, error)
}
