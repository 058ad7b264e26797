package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/store"
	"github.com/phrazzld/studyflow-api/internal/testutils"
)

// authedJSONRequest builds a request carrying the user ID in its
// context, the way the authentication middleware would.
func authedJSONRequest(
	t *testing.T,
	method, target string,
	userID uuid.UUID,
	body interface{},
) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(testutils.WithUserID(req.Context(), userID))
	}
	return req
}

// serveWithRoutes runs the request through a chi router so URL
// parameters resolve the same way they do in production.
func serveWithRoutes(req *http.Request, register func(chi.Router)) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- service stubs ---

type stubUserService struct {
	getUserFunc        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getUserByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	createUserFunc     func(ctx context.Context, email, password string) (*domain.User, error)
	updateSettingsFunc func(ctx context.Context, userID uuid.UUID, settings domain.Settings) (*domain.User, error)
	changePasswordFunc func(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	verifyPasswordFunc func(ctx context.Context, userID uuid.UUID, password string) (bool, error)
}

var _ service.UserService = (*stubUserService)(nil)

func (s *stubUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUserFunc(ctx, userID)
}

func (s *stubUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserByEmailFunc(ctx, email)
}

func (s *stubUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.createUserFunc(ctx, email, password)
}

func (s *stubUserService) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	settings domain.Settings,
) (*domain.User, error) {
	return s.updateSettingsFunc(ctx, userID, settings)
}

func (s *stubUserService) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	return s.changePasswordFunc(ctx, userID, currentPassword, newPassword)
}

func (s *stubUserService) VerifyPassword(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (bool, error) {
	return s.verifyPasswordFunc(ctx, userID, password)
}

type stubTaskService struct {
	createFunc func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	getFunc    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	listFunc   func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	updateFunc func(ctx context.Context, ownerID, taskID uuid.UUID, input service.UpdateTaskInput) (*domain.Task, error)
	deleteFunc func(ctx context.Context, ownerID, taskID uuid.UUID) error
}

var _ service.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	return s.createFunc(ctx, ownerID, input)
}

func (s *stubTaskService) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.getFunc(ctx, ownerID, taskID)
}

func (s *stubTaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	return s.listFunc(ctx, ownerID, filter)
}

func (s *stubTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	return s.updateFunc(ctx, ownerID, taskID, input)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, taskID)
}

type stubProjectService struct {
	createFunc        func(ctx context.Context, ownerID uuid.UUID, input service.CreateProjectInput) (*domain.Project, error)
	getFunc           func(ctx context.Context, ownerID, projectID uuid.UUID) (*domain.Project, error)
	listFunc          func(ctx context.Context, ownerID uuid.UUID, dueWithin *store.DateRange) ([]*domain.Project, error)
	updateFunc        func(ctx context.Context, ownerID, projectID uuid.UUID, input service.UpdateProjectInput) (*domain.Project, error)
	deleteFunc        func(ctx context.Context, ownerID, projectID uuid.UUID) error
	addSubTaskFunc    func(ctx context.Context, ownerID, projectID, parentID uuid.UUID, text string) (*domain.Project, error)
	updateSubTaskFunc func(ctx context.Context, ownerID, projectID, nodeID uuid.UUID, patch subtask.Patch) (*domain.Project, error)
	removeSubTaskFunc func(ctx context.Context, ownerID, projectID, nodeID uuid.UUID) (*domain.Project, error)
}

var _ service.ProjectService = (*stubProjectService)(nil)

func (s *stubProjectService) CreateProject(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateProjectInput,
) (*domain.Project, error) {
	return s.createFunc(ctx, ownerID, input)
}

func (s *stubProjectService) GetProject(
	ctx context.Context,
	ownerID, projectID uuid.UUID,
) (*domain.Project, error) {
	return s.getFunc(ctx, ownerID, projectID)
}

func (s *stubProjectService) ListProjects(
	ctx context.Context,
	ownerID uuid.UUID,
	dueWithin *store.DateRange,
) ([]*domain.Project, error) {
	return s.listFunc(ctx, ownerID, dueWithin)
}

func (s *stubProjectService) UpdateProject(
	ctx context.Context,
	ownerID, projectID uuid.UUID,
	input service.UpdateProjectInput,
) (*domain.Project, error) {
	return s.updateFunc(ctx, ownerID, projectID, input)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, ownerID, projectID uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, projectID)
}

func (s *stubProjectService) AddSubTask(
	ctx context.Context,
	ownerID, projectID, parentID uuid.UUID,
	text string,
) (*domain.Project, error) {
	return s.addSubTaskFunc(ctx, ownerID, projectID, parentID, text)
}

func (s *stubProjectService) UpdateSubTask(
	ctx context.Context,
	ownerID, projectID, nodeID uuid.UUID,
	patch subtask.Patch,
) (*domain.Project, error) {
	return s.updateSubTaskFunc(ctx, ownerID, projectID, nodeID, patch)
}

func (s *stubProjectService) RemoveSubTask(
	ctx context.Context,
	ownerID, projectID, nodeID uuid.UUID,
) (*domain.Project, error) {
	return s.removeSubTaskFunc(ctx, ownerID, projectID, nodeID)
}

type stubBookService struct {
	createFunc func(ctx context.Context, ownerID uuid.UUID, input service.CreateBookInput) (*domain.Book, error)
	getFunc    func(ctx context.Context, ownerID, bookID uuid.UUID) (*domain.Book, error)
	listFunc   func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)
	updateFunc func(ctx context.Context, ownerID, bookID uuid.UUID, input service.UpdateBookInput) (*domain.Book, error)
	deleteFunc func(ctx context.Context, ownerID, bookID uuid.UUID) error
}

var _ service.BookService = (*stubBookService)(nil)

func (s *stubBookService) CreateBook(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateBookInput,
) (*domain.Book, error) {
	return s.createFunc(ctx, ownerID, input)
}

func (s *stubBookService) GetBook(ctx context.Context, ownerID, bookID uuid.UUID) (*domain.Book, error) {
	return s.getFunc(ctx, ownerID, bookID)
}

func (s *stubBookService) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	return s.listFunc(ctx, ownerID)
}

func (s *stubBookService) UpdateBook(
	ctx context.Context,
	ownerID, bookID uuid.UUID,
	input service.UpdateBookInput,
) (*domain.Book, error) {
	return s.updateFunc(ctx, ownerID, bookID, input)
}

func (s *stubBookService) DeleteBook(ctx context.Context, ownerID, bookID uuid.UUID) error {
	return s.deleteFunc(ctx, ownerID, bookID)
}

type stubDashboardService struct {
	getDashboardFunc func(ctx context.Context, userID uuid.UUID) (*service.Dashboard, error)
}

var _ service.DashboardService = (*stubDashboardService)(nil)

func (s *stubDashboardService) GetDashboard(
	ctx context.Context,
	userID uuid.UUID,
) (*service.Dashboard, error) {
	return s.getDashboardFunc(ctx, userID)
}
