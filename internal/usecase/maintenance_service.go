package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/domain/series"
)

// NightlyResult reports what the nightly maintenance pass touched.
type NightlyResult struct {
	SeriesUpdated int   `json:"series_updated"`
	MarqueeCount  int   `json:"marquee_count"`
	PicksGraded   int   `json:"picks_graded"`
	DurationMs    int64 `json:"duration_ms"`
}

// MaintenanceService runs the offline jobs that keep derived game state
// consistent: series numbering, marquee assignment, and pick grading.
type MaintenanceService struct {
	gameRepo game.Repository
	pickRepo pick.Repository
	newRNG   func() *rand.Rand
	now      func() time.Time
}

func NewMaintenanceService(gameRepo game.Repository, pickRepo pick.Repository) *MaintenanceService {
	return &MaintenanceService{
		gameRepo: gameRepo,
		pickRepo: pickRepo,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: time.Now,
	}
}

// SetRNGFactory overrides the random source used for marquee selection.
func (s *MaintenanceService) SetRNGFactory(factory func() *rand.Rand) {
	if factory != nil {
		s.newRNG = factory
	}
}

// RenumberSeries recomputes series numbers for the whole catalog and writes
// back only the rows whose number changed. Safe to re-run: a second pass over
// unchanged schedules writes nothing.
func (s *MaintenanceService) RenumberSeries(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.RenumberSeries")
	defer span.End()

	games, err := s.gameRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	assigned := series.Assign(games)
	changed := make(map[int64]int, len(assigned))
	for _, g := range games {
		number, ok := assigned[g.ID]
		if !ok {
			continue
		}
		if g.SeriesNumber != nil && *g.SeriesNumber == number {
			continue
		}
		changed[g.ID] = number
	}
	if len(changed) == 0 {
		return 0, nil
	}

	if err := s.gameRepo.UpdateSeriesNumbers(ctx, changed); err != nil {
		return 0, fmt.Errorf("update series numbers: %w", err)
	}
	return len(changed), nil
}

// AssignMarqueeGames picks one marquee game at random per date from today
// forward and replaces the previous assignment. Dates already played keep
// their flags so historical slates stay reproducible.
func (s *MaintenanceService) AssignMarqueeGames(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.AssignMarqueeGames")
	defer span.End()

	games, err := s.gameRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	today := game.NormalizeDate(s.now())
	byDate := make(map[time.Time][]int64)
	for _, g := range games {
		date := game.NormalizeDate(g.Date)
		if date.Before(today) {
			continue
		}
		byDate[date] = append(byDate[date], g.ID)
	}
	if len(byDate) == 0 {
		return 0, nil
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	rng := s.newRNG()
	marquee := make([]int64, 0, len(dates))
	for _, date := range dates {
		ids := byDate[date]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		marquee = append(marquee, ids[rng.IntN(len(ids))])
	}

	if err := s.gameRepo.ReplaceMarquee(ctx, marquee); err != nil {
		return 0, fmt.Errorf("replace marquee games: %w", err)
	}
	return len(marquee), nil
}

// GradePicks marks every ungraded pick on a finished game correct or
// incorrect and returns how many rows were graded.
func (s *MaintenanceService) GradePicks(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.GradePicks")
	defer span.End()

	graded, err := s.pickRepo.GradeFinished(ctx)
	if err != nil {
		return 0, fmt.Errorf("grade finished picks: %w", err)
	}
	return graded, nil
}

// RunNightly runs the three maintenance jobs in dependency order. Grading
// goes last so it sees any outcome rows the earlier steps touched.
func (s *MaintenanceService) RunNightly(ctx context.Context) (NightlyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.RunNightly")
	defer span.End()

	start := s.now()
	result := NightlyResult{}

	updated, err := s.RenumberSeries(ctx)
	if err != nil {
		return result, err
	}
	result.SeriesUpdated = updated

	marquee, err := s.AssignMarqueeGames(ctx)
	if err != nil {
		return result, err
	}
	result.MarqueeCount = marquee

	graded, err := s.GradePicks(ctx)
	if err != nil {
		return result, err
	}
	result.PicksGraded = graded

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}
