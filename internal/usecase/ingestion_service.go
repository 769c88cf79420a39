package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/team"
)

const (
	defaultIngestWorkers = 4
	maxIngestWorkers     = 8
	maxIngestDays        = 62
)

// ExternalTeam is a team row as the schedule provider serves it.
type ExternalTeam struct {
	ID   int
	Name string
	City string
	Nick string
	Abbr string
	Logo string
}

// ExternalGame is one scheduled or completed game from the provider.
type ExternalGame struct {
	ID           int64
	HomeTeamID   int
	AwayTeamID   int
	HomeName     string
	AwayName     string
	Date         time.Time
	StartTimeUTC time.Time
	Venue        string
	Finished     bool
	WinnerTeamID *int
	HomeScore    *int
	AwayScore    *int
}

// ScheduleSource is the upstream schedule feed. Implementations own their own
// transport, retries, and rate limiting.
type ScheduleSource interface {
	FetchTeams(ctx context.Context) ([]ExternalTeam, error)
	FetchSchedule(ctx context.Context, date time.Time) ([]ExternalGame, error)
}

type SyncScheduleInput struct {
	From       time.Time
	To         time.Time
	MaxWorkers int
	// SkipMaintenance leaves series numbers, marquee flags, and grading to
	// the next nightly pass.
	SkipMaintenance bool
}

type SyncScheduleResult struct {
	DayCount    int            `json:"day_count"`
	TeamCount   int            `json:"team_count"`
	GameCount   int            `json:"game_count"`
	FailedDays  []SyncDayError `json:"failed_days,omitempty"`
	WorkerCount int            `json:"worker_count"`
	Maintenance *NightlyResult `json:"maintenance,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
}

type SyncDayError struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// IngestionService pulls the schedule feed into the local catalog and then
// hands derived state off to maintenance.
type IngestionService struct {
	source      ScheduleSource
	teamRepo    team.Repository
	gameRepo    game.Repository
	maintenance *MaintenanceService
	now         func() time.Time
}

func NewIngestionService(
	source ScheduleSource,
	teamRepo team.Repository,
	gameRepo game.Repository,
	maintenance *MaintenanceService,
) *IngestionService {
	return &IngestionService{
		source:      source,
		teamRepo:    teamRepo,
		gameRepo:    gameRepo,
		maintenance: maintenance,
		now:         time.Now,
	}
}

// SyncSchedule refreshes teams once, fetches each date in the window through
// a bounded worker pool, and upserts everything. A day that fails to fetch is
// reported in the result without aborting the rest of the window; catalog
// writes only happen for days that fetched cleanly.
func (s *IngestionService) SyncSchedule(ctx context.Context, input SyncScheduleInput) (SyncScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncSchedule")
	defer span.End()

	if s.source == nil {
		return SyncScheduleResult{}, fmt.Errorf("%w: schedule source is not configured", ErrDependencyUnavailable)
	}

	from := game.NormalizeDate(input.From)
	to := game.NormalizeDate(input.To)
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return SyncScheduleResult{}, fmt.Errorf("%w: sync window requires from <= to", ErrInvalidInput)
	}
	dayCount := int(to.Sub(from).Hours()/24) + 1
	if dayCount > maxIngestDays {
		return SyncScheduleResult{}, fmt.Errorf("%w: sync window cannot exceed %d days", ErrInvalidInput, maxIngestDays)
	}

	start := s.now()
	result := SyncScheduleResult{
		DayCount:    dayCount,
		WorkerCount: normalizeIngestWorkerCount(input.MaxWorkers, dayCount),
	}

	// The team catalog fetch runs alongside the per-day schedule fetches;
	// both must land before anything is written.
	var teams []team.Team
	var teamErr error
	var teamFetch conc.WaitGroup
	teamFetch.Go(func() {
		externalTeams, err := s.source.FetchTeams(ctx)
		if err != nil {
			teamErr = fmt.Errorf("fetch teams: %w", err)
			return
		}
		teams = mapExternalTeams(externalTeams)
	})

	type dayResult struct {
		date  time.Time
		games []game.Game
		err   error
	}
	results := make(chan dayResult, dayCount)

	pool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var fetched atomic.Int32
	var workers sync.WaitGroup
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		date := date
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			external, err := s.source.FetchSchedule(ctx, date)
			if err != nil {
				results <- dayResult{date: date, err: err}
				return
			}
			fetched.Add(1)
			results <- dayResult{date: date, games: mapExternalGames(external)}
		}); err != nil {
			workers.Done()
			return result, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)
	teamFetch.Wait()

	if teamErr != nil {
		return result, teamErr
	}
	if len(teams) > 0 {
		if err := s.teamRepo.UpsertBatch(ctx, teams); err != nil {
			return result, fmt.Errorf("upsert teams: %w", err)
		}
	}
	result.TeamCount = len(teams)

	var games []game.Game
	for row := range results {
		if row.err != nil {
			result.FailedDays = append(result.FailedDays, SyncDayError{
				Date:    row.date.Format(time.DateOnly),
				Message: row.err.Error(),
			})
			continue
		}
		games = append(games, row.games...)
	}
	sort.Slice(result.FailedDays, func(i, j int) bool {
		return result.FailedDays[i].Date < result.FailedDays[j].Date
	})
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })

	if len(games) > 0 {
		if err := s.gameRepo.UpsertBatch(ctx, games); err != nil {
			return result, fmt.Errorf("upsert games: %w", err)
		}
	}
	result.GameCount = len(games)

	if !input.SkipMaintenance && s.maintenance != nil {
		nightly, err := s.maintenance.RunNightly(ctx)
		if err != nil {
			return result, fmt.Errorf("post-sync maintenance: %w", err)
		}
		result.Maintenance = &nightly
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func mapExternalTeams(items []ExternalTeam) []team.Team {
	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, team.Team{
			ID:   item.ID,
			Name: item.Name,
			City: item.City,
			Nick: item.Nick,
			Abbr: item.Abbr,
			Logo: item.Logo,
		})
	}
	return out
}

func mapExternalGames(items []ExternalGame) []game.Game {
	out := make([]game.Game, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, game.Game{
			ID:           item.ID,
			HomeTeamID:   item.HomeTeamID,
			AwayTeamID:   item.AwayTeamID,
			HomeName:     item.HomeName,
			AwayName:     item.AwayName,
			Date:         game.NormalizeDate(item.Date),
			StartTimeUTC: item.StartTimeUTC,
			Venue:        item.Venue,
			Finished:     item.Finished,
			WinnerTeamID: item.WinnerTeamID,
			HomeScore:    item.HomeScore,
			AwayScore:    item.AwayScore,
		})
	}
	return out
}

func normalizeIngestWorkerCount(value, dayCount int) int {
	if value <= 0 {
		value = defaultIngestWorkers
	}
	if value > maxIngestWorkers {
		value = maxIngestWorkers
	}
	if value > dayCount {
		value = dayCount
	}
	return value
}
