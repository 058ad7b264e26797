package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/github"
	"github.com/phrazzld/studyflow-api/internal/platform/leetcode"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/service"
)

// LeetCodeFetcher retrieves normalized LeetCode statistics.
type LeetCodeFetcher interface {
	Fetch(ctx context.Context, username string) (*leetcode.Stats, error)
}

// GitHubFetcher retrieves normalized GitHub statistics.
type GitHubFetcher interface {
	Fetch(ctx context.Context, username string) (*github.Stats, error)
}

// StatsHandler handles external coding-stats API requests. Each
// provider has an explicit-username route and a route that falls back
// to the username configured in the caller's profile.
type StatsHandler struct {
	userService service.UserService
	leetcode    LeetCodeFetcher
	github      GitHubFetcher
	logger      *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(
	userService service.UserService,
	leetcodeClient LeetCodeFetcher,
	githubClient GitHubFetcher,
	logger *slog.Logger,
) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsHandler{
		userService: userService,
		leetcode:    leetcodeClient,
		github:      githubClient,
		logger:      logger.With(slog.String("component", "stats_handler")),
	}
}

// GetLeetCodeStats handles GET /api/leetcode/{username}.
func (h *StatsHandler) GetLeetCodeStats(w http.ResponseWriter, r *http.Request) {
	h.fetchLeetCode(w, r, chi.URLParam(r, "username"))
}

// GetOwnLeetCodeStats handles GET /api/leetcode.
// Uses the LeetCode username from the caller's profile.
func (h *StatsHandler) GetOwnLeetCodeStats(w http.ResponseWriter, r *http.Request) {
	username, ok := h.resolveProviderUsername(w, r, func(settings domain.Settings) string {
		return settings.LeetCodeUsername
	})
	if !ok {
		return
	}
	h.fetchLeetCode(w, r, username)
}

// GetGitHubStats handles GET /api/github/{username}.
func (h *StatsHandler) GetGitHubStats(w http.ResponseWriter, r *http.Request) {
	h.fetchGitHub(w, r, chi.URLParam(r, "username"))
}

// GetOwnGitHubStats handles GET /api/github.
// Uses the GitHub username from the caller's profile.
func (h *StatsHandler) GetOwnGitHubStats(w http.ResponseWriter, r *http.Request) {
	username, ok := h.resolveProviderUsername(w, r, func(settings domain.Settings) string {
		return settings.GitHubUsername
	})
	if !ok {
		return
	}
	h.fetchGitHub(w, r, username)
}

func (h *StatsHandler) fetchLeetCode(w http.ResponseWriter, r *http.Request, username string) {
	if h.leetcode == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "LeetCode stats are not configured")
		return
	}

	if username == "" {
		HandleAPIError(w, r,
			domain.NewValidationError("username", "is required", domain.ErrValidation), "")
		return
	}

	stats, err := h.leetcode.Fetch(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch LeetCode stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

func (h *StatsHandler) fetchGitHub(w http.ResponseWriter, r *http.Request, username string) {
	if h.github == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "GitHub stats are not configured")
		return
	}

	stats, err := h.github.Fetch(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch GitHub stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// resolveProviderUsername looks up the caller's profile and picks one
// provider username from it. Writes the error response and returns
// false when the caller is unauthenticated, the lookup fails, or no
// username is configured.
func (h *StatsHandler) resolveProviderUsername(
	w http.ResponseWriter,
	r *http.Request,
	pick func(domain.Settings) string,
) (string, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return "", false
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve profile")
		return "", false
	}

	username := pick(user.Settings)
	if username == "" {
		HandleAPIError(w, r, service.ErrNoProviderUsername, "")
		return "", false
	}

	return username, true
}

// Compile-time checks that the real clients satisfy the fetch interfaces.
var (
	_ LeetCodeFetcher = (*leetcode.Client)(nil)
	_ GitHubFetcher   = (*github.Client)(nil)
)
