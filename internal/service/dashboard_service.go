package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/platform/leetcode"
	"github.com/phrazzld/studyflow-api/internal/platform/logger"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// upcomingWindowDays is how far ahead the dashboard looks for deadlines.
const upcomingWindowDays = 7

// upcomingLimit caps the merged deadline list.
const upcomingLimit = 5

// DeadlineKind distinguishes the source of a merged deadline entry.
type DeadlineKind string

// Possible deadline kinds.
const (
	DeadlineKindTask    DeadlineKind = "task"
	DeadlineKindProject DeadlineKind = "project"
)

// Deadline is one entry in the merged upcoming-deadlines list.
type Deadline struct {
	ID      uuid.UUID    `json:"id"`
	Kind    DeadlineKind `json:"kind"`
	Title   string       `json:"title"`
	DueDate time.Time    `json:"due_date"`
}

// ReadingStatus pairs the currently-reading book with its progress.
type ReadingStatus struct {
	Book            *domain.Book `json:"book"`
	ProgressPercent int          `json:"progress_percent"`
}

// LeetCodeOutcome is the tagged result of the best-effort stats call.
// Exactly one branch is meaningful: TotalSolved when Available is true,
// Reason when it is false.
type LeetCodeOutcome struct {
	Available   bool   `json:"available"`
	TotalSolved int    `json:"total_solved,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Dashboard is the aggregated read model served by the dashboard
// endpoint. Every field is assembled fresh per request.
type Dashboard struct {
	User              *domain.User    `json:"user"`
	TodayTasks        []*domain.Task  `json:"today_tasks"`
	UpcomingDeadlines []Deadline      `json:"upcoming_deadlines"`
	BooksFinished     int             `json:"books_finished"`
	CurrentlyReading  *ReadingStatus  `json:"currently_reading"`
	LeetCode          LeetCodeOutcome `json:"leetcode"`
}

// LeetCodeStatsFetcher is the provider dependency of the dashboard.
// Satisfied by *leetcode.Client.
type LeetCodeStatsFetcher interface {
	Fetch(ctx context.Context, username string) (*leetcode.Stats, error)
}

// DashboardService assembles the dashboard read model.
type DashboardService interface {
	// GetDashboard builds the dashboard for the given user. Store
	// failures fail the whole call; external provider failures degrade
	// only the affected field.
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

// dashboardServiceImpl implements the DashboardService interface
type dashboardServiceImpl struct {
	userStore    store.UserStore
	taskStore    store.TaskStore
	projectStore store.ProjectStore
	bookStore    store.BookStore
	leetcode     LeetCodeStatsFetcher
	timeFunc     func() time.Time // Injectable for testing
	logger       *slog.Logger
}

// Ensure dashboardServiceImpl implements DashboardService interface
var _ DashboardService = (*dashboardServiceImpl)(nil)

// NewDashboardService creates a new DashboardService.
// It returns an error if any of the required store dependencies are nil.
// The leetcode fetcher may be nil, in which case the stats field always
// reports unavailable.
func NewDashboardService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	projectStore store.ProjectStore,
	bookStore store.BookStore,
	leetcodeClient LeetCodeStatsFetcher,
	logger *slog.Logger,
) (DashboardService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if projectStore == nil {
		return nil, domain.NewValidationError("projectStore", "cannot be nil", domain.ErrValidation)
	}
	if bookStore == nil {
		return nil, domain.NewValidationError("bookStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &dashboardServiceImpl{
		userStore:    userStore,
		taskStore:    taskStore,
		projectStore: projectStore,
		bookStore:    bookStore,
		leetcode:     leetcodeClient,
		timeFunc:     time.Now,
		logger:       logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

// GetDashboard implements DashboardService.GetDashboard
// The independent store reads fan out concurrently; the LeetCode call
// runs afterwards because it needs the username from the loaded profile.
func (s *dashboardServiceImpl) GetDashboard(
	ctx context.Context,
	userID uuid.UUID,
) (*Dashboard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.timeFunc()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	windowEnd := startOfTomorrow.AddDate(0, 0, upcomingWindowDays)

	var (
		user             *domain.User
		todayTasks       []*domain.Task
		upcomingTasks    []*domain.Task
		upcomingProjects []*domain.Project
		booksFinished    int
		currentBook      *domain.Book
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := s.userStore.GetByID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		tasks, err := s.taskStore.ListPendingDueBetween(gctx, userID, startOfToday, startOfTomorrow.Add(-time.Nanosecond), 0)
		if err != nil {
			return fmt.Errorf("failed to load today's tasks: %w", err)
		}
		todayTasks = tasks
		return nil
	})
	g.Go(func() error {
		tasks, err := s.taskStore.ListPendingDueBetween(gctx, userID, startOfTomorrow, windowEnd, upcomingLimit)
		if err != nil {
			return fmt.Errorf("failed to load upcoming tasks: %w", err)
		}
		upcomingTasks = tasks
		return nil
	})
	g.Go(func() error {
		projects, err := s.projectStore.ListInProgressDueBetween(gctx, userID, startOfTomorrow, windowEnd, upcomingLimit)
		if err != nil {
			return fmt.Errorf("failed to load upcoming projects: %w", err)
		}
		upcomingProjects = projects
		return nil
	})
	g.Go(func() error {
		count, err := s.bookStore.CountByStatus(gctx, userID, domain.BookStatusFinished)
		if err != nil {
			return fmt.Errorf("failed to count finished books: %w", err)
		}
		booksFinished = count
		return nil
	})
	g.Go(func() error {
		book, err := s.bookStore.FirstByStatus(gctx, userID, domain.BookStatusReading)
		if err != nil {
			// An empty shelf is a normal dashboard state, not a failure.
			if errors.Is(err, store.ErrBookNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load currently-reading book: %w", err)
		}
		currentBook = book
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("dashboard aggregation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	dashboard := &Dashboard{
		User:              user,
		TodayTasks:        todayTasks,
		UpcomingDeadlines: mergeDeadlines(upcomingTasks, upcomingProjects),
		BooksFinished:     booksFinished,
		LeetCode:          s.fetchLeetCode(ctx, user),
	}

	if currentBook != nil {
		dashboard.CurrentlyReading = &ReadingStatus{
			Book:            currentBook,
			ProgressPercent: currentBook.ProgressPercent(),
		}
	}

	log.Debug("dashboard assembled",
		slog.String("user_id", userID.String()),
		slog.Int("today_tasks", len(dashboard.TodayTasks)),
		slog.Int("upcoming_deadlines", len(dashboard.UpcomingDeadlines)),
		slog.Bool("leetcode_available", dashboard.LeetCode.Available))

	return dashboard, nil
}

// fetchLeetCode performs the best-effort stats call. Every failure mode
// collapses into an unavailable outcome; the dashboard never fails
// because an external provider did.
func (s *dashboardServiceImpl) fetchLeetCode(
	ctx context.Context,
	user *domain.User,
) LeetCodeOutcome {
	log := logger.FromContextOrDefault(ctx, s.logger)

	username := user.Settings.LeetCodeUsername
	if username == "" {
		return LeetCodeOutcome{Reason: "no leetcode username configured"}
	}
	if s.leetcode == nil {
		return LeetCodeOutcome{Reason: "leetcode stats not configured"}
	}

	stats, err := s.leetcode.Fetch(ctx, username)
	if err != nil {
		log.Warn("leetcode stats unavailable for dashboard",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return LeetCodeOutcome{Reason: "leetcode stats unavailable"}
	}

	return LeetCodeOutcome{Available: true, TotalSolved: stats.TotalSolved}
}

// mergeDeadlines folds upcoming tasks and projects into one list sorted
// ascending by due date and truncated to the dashboard limit. Entries
// without a due date cannot appear here; the store queries exclude them.
func mergeDeadlines(tasks []*domain.Task, projects []*domain.Project) []Deadline {
	deadlines := make([]Deadline, 0, len(tasks)+len(projects))

	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		deadlines = append(deadlines, Deadline{
			ID:      task.ID,
			Kind:    DeadlineKindTask,
			Title:   task.Title,
			DueDate: *task.DueDate,
		})
	}
	for _, project := range projects {
		if project.DueDate == nil {
			continue
		}
		deadlines = append(deadlines, Deadline{
			ID:      project.ID,
			Kind:    DeadlineKindProject,
			Title:   project.Title,
			DueDate: *project.DueDate,
		})
	}

	sort.Slice(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})

	if len(deadlines) > upcomingLimit {
		deadlines = deadlines[:upcomingLimit]
	}
	return deadlines
}
