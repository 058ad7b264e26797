package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

// Possible project status values.
const (
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Common validation errors for Project.
var (
	ErrEmptyProjectID       = errors.New("project ID cannot be empty")
	ErrEmptyProjectOwnerID  = errors.New("project owner ID cannot be empty")
	ErrEmptyProjectTitle    = errors.New("project title cannot be empty")
	ErrInvalidProjectStatus = errors.New("invalid project status")
)

// Project is a user-owned unit of work carrying an arbitrarily deep
// checklist of sub-tasks. The project is the unit of persistence: the
// whole sub-task forest is stored and rewritten as one document, so a
// single operation can never leave the tree partially updated.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	SubTasks    *subtask.Tree `json:"sub_tasks"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewProject creates a new in-progress Project with an empty sub-task
// forest, owned by ownerID. Returns an error if validation fails.
func NewProject(ownerID uuid.UUID, title string) (*Project, error) {
	project := &Project{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Status:    ProjectStatusInProgress,
		SubTasks:  subtask.NewTree(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
// Returns an error if any field fails validation.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}

	if p.OwnerID == uuid.Nil {
		return ErrEmptyProjectOwnerID
	}

	if p.Title == "" {
		return ErrEmptyProjectTitle
	}

	if !isValidProjectStatus(p.Status) {
		return ErrInvalidProjectStatus
	}

	return nil
}

// isValidProjectStatus checks if the given status is a valid ProjectStatus.
func isValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	default:
		return false
	}
}
