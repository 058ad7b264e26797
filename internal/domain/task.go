package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskFrequency represents how often a task recurs.
type TaskFrequency string

// Possible task frequency values.
const (
	TaskFrequencyDaily   TaskFrequency = "daily"
	TaskFrequencyWeekly  TaskFrequency = "weekly"
	TaskFrequencyMonthly TaskFrequency = "monthly"
)

// TaskStatus represents the completion state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Common validation errors for Task.
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID   = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrInvalidTaskFreq    = errors.New("invalid task frequency")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
	ErrNegativeProgress   = errors.New("task progress cannot be negative")
	ErrNonPositiveTarget  = errors.New("task target must be positive when set")
)

// Task is a flat, user-owned to-do item. Category and progress/target are
// optional hooks for dashboard widgets (e.g. reading goals, milestones).
type Task struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Frequency   TaskFrequency `json:"frequency"`
	Status      TaskStatus    `json:"status"`
	Category    string        `json:"category,omitempty"`
	Progress    int           `json:"progress"`
	Target      *int          `json:"target,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTask creates a new pending Task owned by ownerID.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title string, frequency TaskFrequency) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Frequency: frequency,
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !isValidTaskFrequency(t.Frequency) {
		return ErrInvalidTaskFreq
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.Progress < 0 {
		return ErrNegativeProgress
	}

	if t.Target != nil && *t.Target <= 0 {
		return ErrNonPositiveTarget
	}

	return nil
}

// isValidTaskFrequency checks if the given frequency is a valid TaskFrequency.
func isValidTaskFrequency(f TaskFrequency) bool {
	switch f {
	case TaskFrequencyDaily, TaskFrequencyWeekly, TaskFrequencyMonthly:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
