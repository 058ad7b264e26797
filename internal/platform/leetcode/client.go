// Package leetcode fetches public problem-solving statistics from an
// unofficial LeetCode stats API. Calls are best-effort: callers that
// can degrade (like the dashboard) treat any error as a missing stat,
// while the stats endpoint maps the typed errors to HTTP statuses.
package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phrazzld/studyflow-api/internal/platform/logger"
)

// DefaultBaseURL is the public stats API queried when no override is
// configured.
const DefaultBaseURL = "https://leetcode-api-faisalshohag.vercel.app"

// Typed client errors. The stats endpoint maps ErrUserNotFound to 404
// and ErrUnavailable to 502.
var (
	ErrUserNotFound = errors.New("leetcode user not found")
	ErrUnavailable  = errors.New("leetcode stats service unavailable")
)

// Stats is the subset of the upstream payload the application uses.
type Stats struct {
	TotalSolved    int `json:"totalSolved"`
	TotalQuestions int `json:"totalQuestions"`
	EasySolved     int `json:"easySolved"`
	MediumSolved   int `json:"mediumSolved"`
	HardSolved     int `json:"hardSolved"`
	Ranking        int `json:"ranking"`
}

// upstreamPayload mirrors the wire shape, including the errors field the
// API populates instead of a non-2xx status when the username is unknown.
type upstreamPayload struct {
	Stats
	Errors json.RawMessage `json:"errors"`
}

// Client queries the stats API over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a stats client. An empty baseURL selects
// DefaultBaseURL; a zero timeout disables the per-request deadline.
// If logger is nil, a default logger will be used.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.With(slog.String("component", "leetcode_client")),
	}
}

// Fetch retrieves solving stats for the given username. It makes a
// single attempt; the caller decides whether failure is fatal.
func (c *Client) Fetch(ctx context.Context, username string) (*Stats, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrUserNotFound)
	}

	endpoint := c.baseURL + "/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("leetcode stats request failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		log.Warn("leetcode stats request returned unexpected status",
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var payload upstreamPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn("leetcode stats response was not valid JSON",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	// The upstream API reports unknown usernames with a 200 carrying an
	// errors field rather than a 404.
	if len(payload.Errors) > 0 && string(payload.Errors) != "null" {
		return nil, ErrUserNotFound
	}

	stats := payload.Stats
	return &stats, nil
}
