package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
)

// MustNewUser creates a valid user for tests, failing the test on error.
func MustNewUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "correct-horse-battery")
	require.NoError(t, err)
	return user
}

// MustNewTask creates a valid pending task for tests.
func MustNewTask(t *testing.T, ownerID uuid.UUID, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, title, domain.TaskFrequencyDaily)
	require.NoError(t, err)
	return task
}

// MustNewProject creates a valid project with an empty sub-task forest.
func MustNewProject(t *testing.T, ownerID uuid.UUID, title string) *domain.Project {
	t.Helper()
	project, err := domain.NewProject(ownerID, title)
	require.NoError(t, err)
	return project
}

// MustNewBook creates a valid to-read book for tests.
func MustNewBook(t *testing.T, ownerID uuid.UUID, title string, totalPages int) *domain.Book {
	t.Helper()
	book, err := domain.NewBook(ownerID, title, totalPages)
	require.NoError(t, err)
	return book
}

// WithUserID returns a context carrying the given user ID the way the
// authentication middleware would set it.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, shared.UserIDContextKey, userID)
}
