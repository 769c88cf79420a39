package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/infrastructure/repository/memory"
)

type stubScheduleSource struct {
	teams    []ExternalTeam
	byDate   map[string][]ExternalGame
	failDate string
}

func (s *stubScheduleSource) FetchTeams(context.Context) ([]ExternalTeam, error) {
	return s.teams, nil
}

func (s *stubScheduleSource) FetchSchedule(_ context.Context, date time.Time) ([]ExternalGame, error) {
	key := date.Format(time.DateOnly)
	if key == s.failDate {
		return nil, fmt.Errorf("upstream returned 503 for %s", key)
	}
	return s.byDate[key], nil
}

func newIngestionFixture(source ScheduleSource) (*IngestionService, *memory.TeamRepository, *memory.GameRepository) {
	teamRepo := memory.NewTeamRepository(nil)
	gameRepo := memory.NewGameRepository(nil)
	pickRepo := memory.NewPickRepository(gameRepo)

	maintenance := NewMaintenanceService(gameRepo, pickRepo)
	maintenance.now = func() time.Time { return time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC) }

	return NewIngestionService(source, teamRepo, gameRepo, maintenance), teamRepo, gameRepo
}

func TestIngestionService_SyncSchedule_UpsertsTeamsAndGames(t *testing.T) {
	t.Parallel()

	source := &stubScheduleSource{
		teams: []ExternalTeam{
			{ID: 147, Name: "New York Yankees", City: "New York", Nick: "Yankees", Abbr: "NYY"},
			{ID: 111, Name: "Boston Red Sox", City: "Boston", Nick: "Red Sox", Abbr: "BOS"},
		},
		byDate: map[string][]ExternalGame{
			"2025-07-11": {
				{
					ID:           745101,
					HomeTeamID:   111,
					AwayTeamID:   147,
					HomeName:     "Boston Red Sox",
					AwayName:     "New York Yankees",
					Date:         time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
					StartTimeUTC: time.Date(2025, 7, 11, 23, 0, 0, 0, time.UTC),
					Venue:        "Fenway Park",
				},
			},
			"2025-07-12": {
				{
					ID:           745201,
					HomeTeamID:   111,
					AwayTeamID:   147,
					HomeName:     "Boston Red Sox",
					AwayName:     "New York Yankees",
					Date:         time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
					StartTimeUTC: time.Date(2025, 7, 12, 20, 0, 0, 0, time.UTC),
					Venue:        "Fenway Park",
				},
			},
		},
	}

	svc, teamRepo, gameRepo := newIngestionFixture(source)

	result, err := svc.SyncSchedule(t.Context(), SyncScheduleInput{
		From: time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("sync schedule: %v", err)
	}
	if result.TeamCount != 2 || result.GameCount != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.FailedDays) != 0 {
		t.Fatalf("unexpected failed days: %+v", result.FailedDays)
	}
	if result.Maintenance == nil || result.Maintenance.SeriesUpdated != 2 {
		t.Fatalf("expected post-sync series numbering, got %+v", result.Maintenance)
	}

	teams, err := teamRepo.List(t.Context())
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("unexpected team count: %d", len(teams))
	}

	stored, exists, err := gameRepo.GetByID(t.Context(), 745101)
	if err != nil || !exists {
		t.Fatalf("stored game missing: exists=%v err=%v", exists, err)
	}
	if stored.SeriesNumber == nil {
		t.Fatal("expected maintenance to assign a series number")
	}
	if !game.NormalizeDate(stored.Date).Equal(time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected stored date: %v", stored.Date)
	}
}

func TestIngestionService_SyncSchedule_FailedDayDoesNotAbort(t *testing.T) {
	t.Parallel()

	source := &stubScheduleSource{
		failDate: "2025-07-12",
		byDate: map[string][]ExternalGame{
			"2025-07-11": {
				{
					ID:           745101,
					HomeTeamID:   111,
					AwayTeamID:   147,
					Date:         time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
					StartTimeUTC: time.Date(2025, 7, 11, 23, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	svc, _, gameRepo := newIngestionFixture(source)

	result, err := svc.SyncSchedule(t.Context(), SyncScheduleInput{
		From:            time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
		To:              time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC),
		SkipMaintenance: true,
	})
	if err != nil {
		t.Fatalf("sync schedule: %v", err)
	}
	if result.GameCount != 1 {
		t.Fatalf("clean days must still land: %+v", result)
	}
	if len(result.FailedDays) != 1 || result.FailedDays[0].Date != "2025-07-12" {
		t.Fatalf("unexpected failed days: %+v", result.FailedDays)
	}
	if result.Maintenance != nil {
		t.Fatal("maintenance must be skipped when requested")
	}

	if _, exists, _ := gameRepo.GetByID(t.Context(), 745101); !exists {
		t.Fatal("fetched game was not stored")
	}
}

func TestIngestionService_SyncSchedule_InvalidWindow(t *testing.T) {
	t.Parallel()

	svc, _, _ := newIngestionFixture(&stubScheduleSource{})

	_, err := svc.SyncSchedule(t.Context(), SyncScheduleInput{
		From: time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.SyncSchedule(t.Context(), SyncScheduleInput{
		From: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized window, got %v", err)
	}
}

func TestIngestionService_SyncSchedule_MissingSource(t *testing.T) {
	t.Parallel()

	svc, _, _ := newIngestionFixture(nil)

	_, err := svc.SyncSchedule(t.Context(), SyncScheduleInput{
		From: time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
