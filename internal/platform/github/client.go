// Package github fetches public profile and repository statistics from
// the GitHub API and normalizes them into the compact shape the stats
// endpoints serve.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"

	gh "github.com/google/go-github/v58/github"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/studyflow-api/internal/platform/logger"
)

// Typed client errors. The stats endpoints map ErrInvalidUsername to
// 400, ErrUserNotFound to 404, and ErrUnavailable to 502.
var (
	ErrInvalidUsername = errors.New("invalid github username format")
	ErrUserNotFound    = errors.New("github user not found")
	ErrUnavailable     = errors.New("github stats service unavailable")
)

// usernamePattern matches alphanumerics separated by single hyphens,
// with no leading or trailing hyphen. The 39-character cap is checked
// separately.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

const maxUsernameLength = 39

// Profile is the normalized view of a GitHub user.
type Profile struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	PublicRepos int    `json:"public_repos"`
	URL         string `json:"url"`
}

// Language is one entry in the top-languages ranking.
type Language struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Repo is one entry in the top-repositories ranking.
type Repo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
	Language string `json:"language"`
}

// Stats is the normalized payload served by the stats endpoints.
type Stats struct {
	Profile      Profile    `json:"profile"`
	TopLanguages []Language `json:"topLanguages"`
	TopRepos     []Repo     `json:"topRepos"`
}

// Client queries the GitHub API.
type Client struct {
	gh     *gh.Client
	logger *slog.Logger
}

// NewClient creates a stats client. A non-empty token authenticates
// requests for higher rate limits; an empty token falls back to
// anonymous access. If logger is nil, a default logger will be used.
func NewClient(token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		gh:     client,
		logger: logger.With(slog.String("component", "github_client")),
	}
}

// ValidateUsername reports whether the username is well formed.
// Returns ErrInvalidUsername when it is not.
func ValidateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength ||
		!usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Fetch retrieves and normalizes stats for the given username. The
// profile and repository list are fetched in parallel; either call
// failing fails the whole fetch.
func (c *Client) Fetch(ctx context.Context, username string) (*Stats, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	var (
		user  *gh.User
		repos []*gh.Repository
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, _, err := c.gh.Users.Get(gctx, username)
		if err != nil {
			return classifyError(err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		opts := &gh.RepositoryListOptions{
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		r, _, err := c.gh.Repositories.List(gctx, username, opts)
		if err != nil {
			return classifyError(err)
		}
		repos = r
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("github stats fetch failed",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return nil, err
	}

	stats := &Stats{
		Profile: Profile{
			Username:    user.GetLogin(),
			Name:        user.GetName(),
			AvatarURL:   user.GetAvatarURL(),
			Bio:         user.GetBio(),
			Followers:   user.GetFollowers(),
			Following:   user.GetFollowing(),
			PublicRepos: user.GetPublicRepos(),
			URL:         user.GetHTMLURL(),
		},
		TopLanguages: topLanguages(repos),
		TopRepos:     topRepos(repos),
	}

	log.Debug("github stats fetched",
		slog.String("username", username),
		slog.Int("repo_count", len(repos)))
	return stats, nil
}

// classifyError maps go-github errors to the client's typed errors.
func classifyError(err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// topLanguages counts repositories per primary language and keeps the
// five most common, ties broken alphabetically for a stable order.
func topLanguages(repos []*gh.Repository) []Language {
	counts := make(map[string]int)
	for _, repo := range repos {
		if lang := repo.GetLanguage(); lang != "" {
			counts[lang]++
		}
	}

	languages := make([]Language, 0, len(counts))
	for name, count := range counts {
		languages = append(languages, Language{Name: name, Count: count})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Count != languages[j].Count {
			return languages[i].Count > languages[j].Count
		}
		return languages[i].Name < languages[j].Name
	})

	if len(languages) > 5 {
		languages = languages[:5]
	}
	return languages
}

// topRepos keeps the five most starred repositories.
func topRepos(repos []*gh.Repository) []Repo {
	sorted := make([]*gh.Repository, len(repos))
	copy(sorted, repos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GetStargazersCount() > sorted[j].GetStargazersCount()
	})

	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	top := make([]Repo, 0, len(sorted))
	for _, repo := range sorted {
		top = append(top, Repo{
			Name:     repo.GetName(),
			URL:      repo.GetHTMLURL(),
			Stars:    repo.GetStargazersCount(),
			Forks:    repo.GetForksCount(),
			Language: repo.GetLanguage(),
		})
	}
	return top
}
