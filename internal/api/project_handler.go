package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// ProjectHandler handles project CRUD and sub-task API requests.
// Sub-task endpoints always respond with the full updated project so
// the client never has to reconcile a partial tree.
type ProjectHandler struct {
	projectService service.ProjectService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService service.ProjectService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProjectHandler{
		projectService: projectService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "project_handler")),
	}
}

// CreateProject handles POST /api/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), userID, service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, project)
}

// GetProject handles GET /api/projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), userID, projectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// ListProjects handles GET /api/projects.
// Optional query parameters due_after and due_before (RFC 3339) restrict
// the list to projects due inside the window; both must be supplied
// together.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	dueWithin, err := dateRangeFromQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	projects, err := h.projectService.ListProjects(r.Context(), userID, dueWithin)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projects)
}

// UpdateProject handles PUT /api/projects/{id}.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.projectService.UpdateProject(r.Context(), userID, projectID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), userID, projectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddSubTask handles POST /api/projects/{id}/subtasks.
func (h *ProjectHandler) AddSubTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddSubTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	parentID := uuid.Nil
	if req.ParentID != nil {
		// The zero UUID is the internal root sentinel and can never name
		// a node, so an explicit one is malformed input.
		if *req.ParentID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid parent_id: has invalid format")
			return
		}
		parentID = *req.ParentID
	}

	project, err := h.projectService.AddSubTask(r.Context(), userID, projectID, parentID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add sub-task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, project)
}

// UpdateSubTask handles PUT /api/projects/{id}/subtasks/{nodeId}.
func (h *ProjectHandler) UpdateSubTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	nodeID, err := getPathUUID(r, "nodeId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateSubTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	project, err := h.projectService.UpdateSubTask(r.Context(), userID, projectID, nodeID, subtask.Patch{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update sub-task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// RemoveSubTask handles DELETE /api/projects/{id}/subtasks/{nodeId}.
func (h *ProjectHandler) RemoveSubTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, projectID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	nodeID, err := getPathUUID(r, "nodeId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	project, err := h.projectService.RemoveSubTask(r.Context(), userID, projectID, nodeID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove sub-task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, project)
}

// dateRangeFromQuery parses the optional due_after/due_before window.
func dateRangeFromQuery(r *http.Request) (*store.DateRange, error) {
	after := r.URL.Query().Get("due_after")
	before := r.URL.Query().Get("due_before")

	if after == "" && before == "" {
		return nil, nil
	}
	if after == "" || before == "" {
		return nil, domain.NewValidationError(
			"due_after", "due_after and due_before must be supplied together", domain.ErrValidation)
	}

	start, err := time.Parse(time.RFC3339, after)
	if err != nil {
		return nil, domain.NewValidationError("due_after", "must be an RFC 3339 timestamp", domain.ErrValidation)
	}

	end, err := time.Parse(time.RFC3339, before)
	if err != nil {
		return nil, domain.NewValidationError("due_before", "must be an RFC 3339 timestamp", domain.ErrValidation)
	}

	if end.Before(start) {
		return nil, domain.NewValidationError("due_before", "must not precede due_after", domain.ErrValidation)
	}

	return &store.DateRange{Start: start, End: end}, nil
}
