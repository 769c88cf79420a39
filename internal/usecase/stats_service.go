package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
)

const defaultHistoryLimit = 50

// StatsService serves the aggregates derived from committed pick state. It
// reads independently of session state except for the leaderboard, which by
// design counts only session-member picks.
type StatsService struct {
	gameRepo game.Repository
	pickRepo pick.Repository
	now      func() time.Time
}

func NewStatsService(gameRepo game.Repository, pickRepo pick.Repository) *StatsService {
	return &StatsService{
		gameRepo: gameRepo,
		pickRepo: pickRepo,
		now:      time.Now,
	}
}

// TotalsForGame tallies home and away picks for one game and mode. The split
// is computed over one snapshot, so Total == HomePicks + AwayPicks even under
// concurrent writes.
func (s *StatsService) TotalsForGame(ctx context.Context, gameID int64, isSeries bool) (pick.Totals, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TotalsForGame")
	defer span.End()

	if gameID <= 0 {
		return pick.Totals{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	_, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return pick.Totals{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return pick.Totals{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	totals, err := s.pickRepo.TotalsForGame(ctx, gameID, isSeries)
	if err != nil {
		return pick.Totals{}, fmt.Errorf("totals for game: %w", err)
	}
	return totals, nil
}

// RecordForUser returns the user's graded win/loss record. Future and
// unplayed games never count; since, when set, bounds the window from below.
func (s *StatsService) RecordForUser(ctx context.Context, userID string, since *time.Time) (pick.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecordForUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return pick.Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	record, err := s.pickRepo.RecordForUser(ctx, userID, since, game.NormalizeDate(s.now()))
	if err != nil {
		return pick.Record{}, fmt.Errorf("record for user: %w", err)
	}
	return record, nil
}

// Leaderboard ranks users by correct session picks, descending. Standalone
// picks are excluded by design. Ties keep the aggregate's stable grouping
// order; no secondary sort is defined yet.
func (s *StatsService) Leaderboard(ctx context.Context, isSeries bool) ([]pick.LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboard")
	defer span.End()

	rows, err := s.pickRepo.Leaderboard(ctx, isSeries)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return rows, nil
}

// HistoryForUser lists the user's picks joined with their games, newest game
// first, with offset pagination.
func (s *StatsService) HistoryForUser(ctx context.Context, userID string, limit, offset int) ([]pick.HistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.HistoryForUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.pickRepo.HistoryByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("history for user: %w", err)
	}
	return entries, nil
}
