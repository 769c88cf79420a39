package usecase

import (
	"errors"
	"testing"

	"github.com/pickemhq/pickem/internal/infrastructure/repository/memory"
	"github.com/pickemhq/pickem/internal/platform/id"
)

type statsFixture struct {
	stats       *StatsService
	picks       *PickService
	sessions    *SessionService
	maintenance *MaintenanceService
	games       *memory.GameRepository
}

func newStatsFixture() statsFixture {
	gameRepo := memory.NewGameRepository(memory.SeedGames())
	pickRepo := memory.NewPickRepository(gameRepo)
	sessionRepo := memory.NewSessionRepository(pickRepo)
	userRepo := memory.NewUserRepository()

	return statsFixture{
		stats:       NewStatsService(gameRepo, pickRepo),
		picks:       NewPickService(gameRepo, pickRepo, sessionRepo),
		sessions:    NewSessionService(gameRepo, sessionRepo, userRepo, id.NewRandomGenerator()),
		maintenance: NewMaintenanceService(gameRepo, pickRepo),
		games:       gameRepo,
	}
}

func TestStatsService_TotalsForGame_SplitAddsUp(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	submissions := []struct {
		userID     string
		pickedHome bool
	}{
		{"user-1", true},
		{"user-2", true},
		{"user-3", false},
	}
	for _, sub := range submissions {
		if _, _, err := fx.picks.Upsert(t.Context(), sub.userID, UpsertPickInput{
			GameID: 745101, PickedHome: sub.pickedHome, IsSeries: boolPtr(false),
		}); err != nil {
			t.Fatalf("upsert pick for %s: %v", sub.userID, err)
		}
	}

	totals, err := fx.stats.TotalsForGame(t.Context(), 745101, false)
	if err != nil {
		t.Fatalf("totals for game: %v", err)
	}
	if totals.Total != 3 || totals.HomePicks != 2 || totals.AwayPicks != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.Total != totals.HomePicks+totals.AwayPicks {
		t.Fatalf("split does not add up: %+v", totals)
	}
}

func TestStatsService_TotalsForGame_UnknownGame(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	_, err := fx.stats.TotalsForGame(t.Context(), 999999, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsService_RecordForUser_CountsOnlyGradedPicks(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	// 745001 finished with an away win, 745101 not yet played.
	if _, _, err := fx.picks.Upsert(t.Context(), "user-1", UpsertPickInput{
		GameID: 745001, PickedHome: false, IsSeries: boolPtr(false),
	}); err != nil {
		t.Fatalf("upsert graded pick: %v", err)
	}
	if _, _, err := fx.picks.Upsert(t.Context(), "user-1", UpsertPickInput{
		GameID: 745101, PickedHome: true, IsSeries: boolPtr(false),
	}); err != nil {
		t.Fatalf("upsert pending pick: %v", err)
	}

	if _, err := fx.maintenance.GradePicks(t.Context()); err != nil {
		t.Fatalf("grade picks: %v", err)
	}

	record, err := fx.stats.RecordForUser(t.Context(), "user-1", nil)
	if err != nil {
		t.Fatalf("record for user: %v", err)
	}
	if record.Total != 1 || record.Correct != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestStatsService_RecordForUser_SinceBound(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	if _, _, err := fx.picks.Upsert(t.Context(), "user-1", UpsertPickInput{
		GameID: 745001, PickedHome: true, IsSeries: boolPtr(false),
	}); err != nil {
		t.Fatalf("upsert pick: %v", err)
	}
	if _, err := fx.maintenance.GradePicks(t.Context()); err != nil {
		t.Fatalf("grade picks: %v", err)
	}

	since := memory.SeedDatePlayed.AddDate(0, 0, 1)
	record, err := fx.stats.RecordForUser(t.Context(), "user-1", &since)
	if err != nil {
		t.Fatalf("record for user: %v", err)
	}
	if record.Total != 0 {
		t.Fatalf("pick before the window must not count: %+v", record)
	}
}

func TestStatsService_Leaderboard_CountsSessionPicksOnly(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	// user-1 picks through a session covering the played date; user-2 submits
	// the same winning pick standalone.
	sess, _, err := fx.sessions.GetOrCreate(t.Context(), "user-1", memory.SeedDatePlayed)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	var gameID int64
	for _, g := range sess.Games {
		if g.ID == 745001 {
			gameID = g.ID
		}
	}
	if gameID == 0 {
		t.Fatalf("expected game 745001 in the slate, got %v", sess.GameIDs())
	}

	if _, _, err := fx.picks.Upsert(t.Context(), "user-1", UpsertPickInput{
		GameID: gameID, PickedHome: false, IsSeries: boolPtr(false),
	}); err != nil {
		t.Fatalf("session pick: %v", err)
	}
	if _, _, err := fx.picks.Upsert(t.Context(), "user-2", UpsertPickInput{
		GameID: gameID, PickedHome: false, IsSeries: boolPtr(false),
	}); err != nil {
		t.Fatalf("standalone pick: %v", err)
	}
	if _, err := fx.maintenance.GradePicks(t.Context()); err != nil {
		t.Fatalf("grade picks: %v", err)
	}

	rows, err := fx.stats.Leaderboard(t.Context(), false)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the session picker on the leaderboard, got %+v", rows)
	}
	if rows[0].UserID != "user-1" || rows[0].CorrectPicks != 1 {
		t.Fatalf("unexpected leaderboard row: %+v", rows[0])
	}
}

func TestStatsService_HistoryForUser_NewestFirstWithPagination(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	for _, gameID := range []int64{745001, 745101, 745105} {
		if _, _, err := fx.picks.Upsert(t.Context(), "user-1", UpsertPickInput{
			GameID: gameID, PickedHome: true, IsSeries: boolPtr(false),
		}); err != nil {
			t.Fatalf("upsert pick for game %d: %v", gameID, err)
		}
	}

	entries, err := fx.stats.HistoryForUser(t.Context(), "user-1", 2, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected page size: %d", len(entries))
	}
	if entries[0].Game.ID != 745105 || entries[1].Game.ID != 745101 {
		t.Fatalf("history out of order: %d, %d", entries[0].Game.ID, entries[1].Game.ID)
	}

	rest, err := fx.stats.HistoryForUser(t.Context(), "user-1", 2, 2)
	if err != nil {
		t.Fatalf("history offset: %v", err)
	}
	if len(rest) != 1 || rest[0].Game.ID != 745001 {
		t.Fatalf("unexpected second page: %+v", rest)
	}
}

func TestStatsService_RecordForUser_RequiresUser(t *testing.T) {
	t.Parallel()

	fx := newStatsFixture()

	if _, err := fx.stats.RecordForUser(t.Context(), "  ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
