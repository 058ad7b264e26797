package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/service"
)

// DashboardHandler handles the aggregated daily overview endpoint.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger.With(slog.String("component", "dashboard_handler")),
	}
}

// GetDashboard handles GET /api/dashboard.
// Provider outages never fail the request; degraded sections carry
// their own availability flags in the payload.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build dashboard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dashboard)
}
