package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/domain/session"
)

// UpsertPickInput is one pick submission. IsSeries is a pointer because the
// discriminator is required: a request that omits it fails validation before
// any persistence is touched.
type UpsertPickInput struct {
	GameID     int64
	PickedHome bool
	IsSeries   *bool
	Comment    string
}

// PickService reconciles pick submissions against sessions with idempotent
// create-or-update semantics.
type PickService struct {
	gameRepo    game.Repository
	pickRepo    pick.Repository
	sessionRepo session.Repository
}

func NewPickService(
	gameRepo game.Repository,
	pickRepo pick.Repository,
	sessionRepo session.Repository,
) *PickService {
	return &PickService{
		gameRepo:    gameRepo,
		pickRepo:    pickRepo,
		sessionRepo: sessionRepo,
	}
}

// Get returns the user's pick for a game and mode, if any.
func (s *PickService) Get(ctx context.Context, userID string, gameID int64, isSeries bool) (pick.Pick, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" || gameID <= 0 {
		return pick.Pick{}, false, fmt.Errorf("%w: user id and game id are required", ErrInvalidInput)
	}

	p, exists, err := s.pickRepo.GetByKey(ctx, userID, gameID, isSeries)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return p, exists, nil
}

// Upsert records or revises one pick. An existing pick for the same
// (user, game, mode) key is updated in place; a new pick is attached to the
// user's session when the game belongs to that session's slate, and persisted
// standalone otherwise. The returned bool reports whether a new pick was
// created. The returned pick always reflects post-update state.
func (s *PickService) Upsert(ctx context.Context, userID string, input UpsertPickInput) (pick.Pick, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Upsert")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if err := validatePickInput(userID, input); err != nil {
		return pick.Pick{}, false, err
	}
	isSeries := *input.IsSeries

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return pick.Pick{}, false, fmt.Errorf("%w: game=%d", ErrNotFound, input.GameID)
	}

	existing, found, err := s.pickRepo.GetByKey(ctx, userID, input.GameID, isSeries)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get existing pick: %w", err)
	}

	var candidate pick.Pick
	if found {
		candidate = existing
		candidate.PickedHome = input.PickedHome
		candidate.Comment = input.Comment
	} else {
		candidate = pick.Pick{
			UserID:     userID,
			GameID:     input.GameID,
			PickedHome: input.PickedHome,
			IsSeries:   isSeries,
			Comment:    input.Comment,
		}
		candidate.SessionID, err = s.sessionFor(ctx, userID, g, isSeries)
		if err != nil {
			return pick.Pick{}, false, err
		}
	}

	saved, err := s.pickRepo.Upsert(ctx, candidate)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("upsert pick: %w", err)
	}
	return saved, !found, nil
}

// UpsertBatch applies Upsert semantics to every element in one pass: existing
// picks and the (at most one) relevant session are loaded up front, the
// session lookup is frozen before iterating, and the whole batch commits in a
// single transaction or not at all.
func (s *PickService) UpsertBatch(ctx context.Context, userID string, inputs []UpsertPickInput) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.UpsertBatch")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: pick batch cannot be empty", ErrInvalidInput)
	}
	for _, input := range inputs {
		if err := validatePickInput(userID, input); err != nil {
			return nil, err
		}
	}
	isSeries := *inputs[0].IsSeries
	gameIDs := make([]int64, 0, len(inputs))
	for _, input := range inputs {
		if *input.IsSeries != isSeries {
			return nil, fmt.Errorf("%w: pick batch cannot mix series and single-game picks", ErrInvalidInput)
		}
		gameIDs = append(gameIDs, input.GameID)
	}

	games, err := s.gameRepo.ListByIDs(ctx, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	gamesByID := make(map[int64]game.Game, len(games))
	for _, g := range games {
		gamesByID[g.ID] = g
	}
	for _, id := range gameIDs {
		if _, ok := gamesByID[id]; !ok {
			return nil, fmt.Errorf("%w: game=%d", ErrNotFound, id)
		}
	}

	existing, err := s.pickRepo.ListByKeys(ctx, userID, gameIDs, isSeries)
	if err != nil {
		return nil, fmt.Errorf("list existing picks: %w", err)
	}
	existingByGame := make(map[int64]pick.Pick, len(existing))
	for _, p := range existing {
		existingByGame[p.GameID] = p
	}

	// All options in a batch share one date; the session is resolved once so
	// a session created mid-batch cannot split the batch between member and
	// standalone picks.
	sess, sessExists, err := s.sessionRepo.GetByKey(ctx, userID, game.NormalizeDate(gamesByID[gameIDs[0]].Date), isSeries)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	items := make([]pick.Pick, 0, len(inputs))
	for _, input := range inputs {
		if p, ok := existingByGame[input.GameID]; ok {
			p.PickedHome = input.PickedHome
			p.Comment = input.Comment
			items = append(items, p)
			continue
		}
		p := pick.Pick{
			UserID:     userID,
			GameID:     input.GameID,
			PickedHome: input.PickedHome,
			IsSeries:   isSeries,
			Comment:    input.Comment,
		}
		if sessExists && sess.HasGame(input.GameID) {
			p.SessionID = sess.ID
		}
		items = append(items, p)
	}

	saved, err := s.pickRepo.UpsertBatch(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("upsert pick batch: %w", err)
	}
	return saved, nil
}

func (s *PickService) sessionFor(ctx context.Context, userID string, g game.Game, isSeries bool) (string, error) {
	sess, exists, err := s.sessionRepo.GetByKey(ctx, userID, game.NormalizeDate(g.Date), isSeries)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if exists && sess.HasGame(g.ID) {
		return sess.ID, nil
	}
	return "", nil
}

func validatePickInput(userID string, input UpsertPickInput) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.GameID <= 0 {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.IsSeries == nil {
		return fmt.Errorf("%w: isSeries discriminator is required", ErrInvalidInput)
	}
	return nil
}
