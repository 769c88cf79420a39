package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/team"
)

// GameStatus is the DB-derived view of where a game stands. Rich live data is
// served by an external feed, not here.
type GameStatus struct {
	GameID       int64
	Status       string
	StartTimeUTC *time.Time
	HomeScore    *int
	AwayScore    *int
}

// GameService exposes read access to the game and team catalog.
type GameService struct {
	gameRepo game.Repository
	teamRepo team.Repository
	now      func() time.Time
}

func NewGameService(gameRepo game.Repository, teamRepo team.Repository) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		now:      time.Now,
	}
}

func (s *GameService) Get(ctx context.Context, gameID int64) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	if gameID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *GameService) ListByDate(ctx context.Context, date time.Time) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListByDate")
	defer span.End()

	games, err := s.gameRepo.ListByDate(ctx, game.NormalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("list games by date: %w", err)
	}
	return games, nil
}

func (s *GameService) ListBySeries(ctx context.Context, seriesNumber int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListBySeries")
	defer span.End()

	if seriesNumber <= 0 {
		return nil, fmt.Errorf("%w: series number is required", ErrInvalidInput)
	}
	games, err := s.gameRepo.ListBySeries(ctx, seriesNumber)
	if err != nil {
		return nil, fmt.Errorf("list games by series: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: series=%d", ErrNotFound, seriesNumber)
	}
	return games, nil
}

func (s *GameService) SeriesNumbers(ctx context.Context) ([]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.SeriesNumbers")
	defer span.End()

	numbers, err := s.gameRepo.ListSeriesNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series numbers: %w", err)
	}
	return numbers, nil
}

func (s *GameService) ListBetweenTeams(ctx context.Context, teamA, teamB int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListBetweenTeams")
	defer span.End()

	if teamA <= 0 || teamB <= 0 {
		return nil, fmt.Errorf("%w: both team ids are required", ErrInvalidInput)
	}
	games, err := s.gameRepo.ListBetweenTeams(ctx, teamA, teamB)
	if err != nil {
		return nil, fmt.Errorf("list games between teams: %w", err)
	}
	return games, nil
}

// ListBetweenAbbrs resolves team abbreviations before the matchup lookup.
func (s *GameService) ListBetweenAbbrs(ctx context.Context, abbrA, abbrB string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListBetweenAbbrs")
	defer span.End()

	abbrA = strings.ToUpper(strings.TrimSpace(abbrA))
	abbrB = strings.ToUpper(strings.TrimSpace(abbrB))
	if abbrA == "" || abbrB == "" {
		return nil, fmt.Errorf("%w: both team abbreviations are required", ErrInvalidInput)
	}

	a, exists, err := s.teamRepo.GetByAbbr(ctx, abbrA)
	if err != nil {
		return nil, fmt.Errorf("get team by abbr: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, abbrA)
	}
	b, exists, err := s.teamRepo.GetByAbbr(ctx, abbrB)
	if err != nil {
		return nil, fmt.Errorf("get team by abbr: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, abbrB)
	}

	return s.ListBetweenTeams(ctx, a.ID, b.ID)
}

// Status derives the coarse game state from stored schedule and outcome
// fields.
func (s *GameService) Status(ctx context.Context, gameID int64) (GameStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Status")
	defer span.End()

	g, err := s.Get(ctx, gameID)
	if err != nil {
		return GameStatus{}, err
	}

	status := GameStatus{GameID: g.ID, Status: g.Status(s.now())}
	switch status.Status {
	case game.StatusScheduled:
		start := g.StartTimeUTC
		status.StartTimeUTC = &start
	case game.StatusFinal, game.StatusLive:
		status.HomeScore = g.HomeScore
		status.AwayScore = g.AwayScore
	}
	return status, nil
}

func (s *GameService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListTeams")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *GameService) GetTeam(ctx context.Context, teamID int) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetTeam")
	defer span.End()

	if teamID <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}
	return t, nil
}
