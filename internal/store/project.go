package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
)

// DateRange bounds a due-date filter, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ProjectStore defines the interface for project data persistence.
// The sub-task forest travels with the project as one document; the
// dedicated UpdateSubTasks write is the only way it changes, keeping
// whole-project updates from clobbering the tree with a stale payload.
type ProjectStore interface {
	// Create saves a new project, including its (usually empty) forest.
	Create(ctx context.Context, project *domain.Project) error

	// GetForOwner retrieves one project by (id, ownerID), with its forest.
	// Returns ErrProjectNotFound if no such project is owned by ownerID.
	GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Project, error)

	// List returns the owner's projects, newest first, optionally
	// restricted to those whose due date falls inside dueWithin.
	List(ctx context.Context, ownerID uuid.UUID, dueWithin *DateRange) ([]*domain.Project, error)

	// Update rewrites the project's scalar fields (title, description,
	// status, due date) identified by (project.ID, project.OwnerID).
	// The sub-task forest is deliberately not written by this method.
	// Returns ErrProjectNotFound if no such project is owned by the owner.
	Update(ctx context.Context, project *domain.Project) error

	// UpdateSubTasks rewrites only the project's sub-task document.
	// Returns ErrProjectNotFound if no such project is owned by ownerID.
	UpdateSubTasks(ctx context.Context, ownerID, id uuid.UUID, tree *subtask.Tree) error

	// Delete removes the project identified by (id, ownerID).
	// Returns ErrProjectNotFound if no such project is owned by ownerID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListInProgressDueBetween returns the owner's in-progress projects
	// whose due date falls in [start, end], ordered by due date
	// ascending, capped at limit (0 means no cap).
	ListInProgressDueBetween(
		ctx context.Context,
		ownerID uuid.UUID,
		start, end time.Time,
		limit int,
	) ([]*domain.Project, error)
}
