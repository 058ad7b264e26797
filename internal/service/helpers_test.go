package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// --- store stubs ---

type stubTaskStore struct {
	createFunc      func(ctx context.Context, task *domain.Task) error
	getForOwnerFunc func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	listFunc        func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	updateFunc      func(ctx context.Context, task *domain.Task) error
	deleteFunc      func(ctx context.Context, ownerID, id uuid.UUID) error
	listPendingFunc func(ctx context.Context, ownerID uuid.UUID, start, end time.Time, limit int) ([]*domain.Task, error)
}

var _ store.TaskStore = (*stubTaskStore)(nil)

func (s *stubTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return s.createFunc(ctx, task)
}

func (s *stubTaskStore) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.getForOwnerFunc(ctx, ownerID, id)
}

func (s *stubTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	return s.listFunc(ctx, ownerID, filter)
}

func (s *stubTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return s.updateFunc(ctx, task)
}

func (s *stubTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, id)
}

func (s *stubTaskStore) ListPendingDueBetween(
	ctx context.Context,
	ownerID uuid.UUID,
	start, end time.Time,
	limit int,
) ([]*domain.Task, error) {
	return s.listPendingFunc(ctx, ownerID, start, end, limit)
}

type stubProjectStore struct {
	createFunc         func(ctx context.Context, project *domain.Project) error
	getForOwnerFunc    func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Project, error)
	listFunc           func(ctx context.Context, ownerID uuid.UUID, dueWithin *store.DateRange) ([]*domain.Project, error)
	updateFunc         func(ctx context.Context, project *domain.Project) error
	updateSubTasksFunc func(ctx context.Context, ownerID, id uuid.UUID, tree *subtask.Tree) error
	deleteFunc         func(ctx context.Context, ownerID, id uuid.UUID) error
	listInProgressFunc func(ctx context.Context, ownerID uuid.UUID, start, end time.Time, limit int) ([]*domain.Project, error)
}

var _ store.ProjectStore = (*stubProjectStore)(nil)

func (s *stubProjectStore) Create(ctx context.Context, project *domain.Project) error {
	return s.createFunc(ctx, project)
}

func (s *stubProjectStore) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Project, error) {
	return s.getForOwnerFunc(ctx, ownerID, id)
}

func (s *stubProjectStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	dueWithin *store.DateRange,
) ([]*domain.Project, error) {
	return s.listFunc(ctx, ownerID, dueWithin)
}

func (s *stubProjectStore) Update(ctx context.Context, project *domain.Project) error {
	return s.updateFunc(ctx, project)
}

func (s *stubProjectStore) UpdateSubTasks(
	ctx context.Context,
	ownerID, id uuid.UUID,
	tree *subtask.Tree,
) error {
	return s.updateSubTasksFunc(ctx, ownerID, id, tree)
}

func (s *stubProjectStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, id)
}

func (s *stubProjectStore) ListInProgressDueBetween(
	ctx context.Context,
	ownerID uuid.UUID,
	start, end time.Time,
	limit int,
) ([]*domain.Project, error) {
	return s.listInProgressFunc(ctx, ownerID, start, end, limit)
}

type stubBookStore struct {
	createFunc        func(ctx context.Context, book *domain.Book) error
	getForOwnerFunc   func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Book, error)
	listFunc          func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)
	updateFunc        func(ctx context.Context, book *domain.Book) error
	deleteFunc        func(ctx context.Context, ownerID, id uuid.UUID) error
	countByStatusFunc func(ctx context.Context, ownerID uuid.UUID, status domain.BookStatus) (int, error)
	firstByStatusFunc func(ctx context.Context, ownerID uuid.UUID, status domain.BookStatus) (*domain.Book, error)
}

var _ store.BookStore = (*stubBookStore)(nil)

func (s *stubBookStore) Create(ctx context.Context, book *domain.Book) error {
	return s.createFunc(ctx, book)
}

func (s *stubBookStore) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Book, error) {
	return s.getForOwnerFunc(ctx, ownerID, id)
}

func (s *stubBookStore) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	return s.listFunc(ctx, ownerID)
}

func (s *stubBookStore) Update(ctx context.Context, book *domain.Book) error {
	return s.updateFunc(ctx, book)
}

func (s *stubBookStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, id)
}

func (s *stubBookStore) CountByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.BookStatus,
) (int, error) {
	return s.countByStatusFunc(ctx, ownerID, status)
}

func (s *stubBookStore) FirstByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.BookStatus,
) (*domain.Book, error) {
	return s.firstByStatusFunc(ctx, ownerID, status)
}

type stubUserStore struct {
	createFunc     func(ctx context.Context, user *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, user *domain.User) error
}

var _ store.UserStore = (*stubUserStore)(nil)

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error {
	return s.createFunc(ctx, user)
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByIDFunc(ctx, id)
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmailFunc(ctx, email)
}

func (s *stubUserStore) Update(ctx context.Context, user *domain.User) error {
	return s.updateFunc(ctx, user)
}

func (s *stubUserStore) WithTx(_ *sql.Tx) store.UserStore {
	return s
}
