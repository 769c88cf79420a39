package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/session"
	"github.com/pickemhq/pickem/internal/domain/slate"
	"github.com/pickemhq/pickem/internal/domain/user"
	"github.com/pickemhq/pickem/internal/platform/id"
)

// SessionService owns the one-session-per-(user, date, mode) invariant.
type SessionService struct {
	gameRepo    game.Repository
	sessionRepo session.Repository
	userRepo    user.Repository
	idGen       id.Generator
	newRNG      func() *rand.Rand
}

func NewSessionService(
	gameRepo game.Repository,
	sessionRepo session.Repository,
	userRepo user.Repository,
	idGen id.Generator,
) *SessionService {
	return &SessionService{
		gameRepo:    gameRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// SetRNGFactory overrides the random source used for slate fill. Tests use a
// seeded source for deterministic slates.
func (s *SessionService) SetRNGFactory(factory func() *rand.Rand) {
	if factory != nil {
		s.newRNG = factory
	}
}

// Get is an exact-match lookup on the composite session key.
func (s *SessionService) Get(ctx context.Context, userID string, date time.Time, isSeries bool) (session.Session, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return session.Session{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	sess, exists, err := s.sessionRepo.GetByKey(ctx, userID, game.NormalizeDate(date), isSeries)
	if err != nil {
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	return sess, exists, nil
}

// GetForPreferences looks up the session under the mode implied by the user's
// stored preferences.
func (s *SessionService) GetForPreferences(ctx context.Context, userID string, date time.Time) (session.Session, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.GetForPreferences")
	defer span.End()

	prefs, err := s.preferencesFor(ctx, userID)
	if err != nil {
		return session.Session{}, false, err
	}
	return s.Get(ctx, userID, date, prefs.SelectionTiming != user.TimingDaily)
}

// Create computes the slate from the supplied options and persists the new
// session. It fails loudly: a concurrent duplicate surfaces as ErrConflict and
// the caller is expected to re-fetch rather than retry the insert.
func (s *SessionService) Create(
	ctx context.Context,
	userID string,
	gameOptions []game.Game,
	mode slate.Mode,
	isSeries bool,
	favoriteTeamID *int,
) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Create")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return session.Session{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(gameOptions) == 0 {
		return session.Session{}, fmt.Errorf("%w: game options cannot be empty", ErrInvalidInput)
	}

	games, err := slate.Build(gameOptions, mode, favoriteTeamID, s.newRNG())
	if err != nil {
		if errors.Is(err, slate.ErrUnsupportedMode) {
			return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		return session.Session{}, fmt.Errorf("build slate: %w", err)
	}

	sessionID, err := s.idGen.NewID()
	if err != nil {
		return session.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := session.Session{
		ID:       sessionID,
		UserID:   userID,
		Date:     game.NormalizeDate(gameOptions[0].Date),
		IsSeries: isSeries,
		Games:    games,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		if errors.Is(err, session.ErrDuplicate) {
			return session.Session{}, fmt.Errorf("%w: session for user=%s date=%s: %v",
				ErrConflict, userID, sess.Date.Format(time.DateOnly), err)
		}
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

// GetOrCreate returns the user's session for the date, creating it on first
// request. The bool result reports whether a new session was created. Losing a
// creation race degrades to a re-fetch of the surviving session.
func (s *SessionService) GetOrCreate(ctx context.Context, userID string, date time.Time) (session.Session, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.GetOrCreate")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return session.Session{}, false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	prefs, err := s.preferencesFor(ctx, userID)
	if err != nil {
		return session.Session{}, false, err
	}
	isSeries := prefs.SelectionTiming != user.TimingDaily

	date = game.NormalizeDate(date)
	existing, exists, err := s.sessionRepo.GetByKey(ctx, userID, date, isSeries)
	if err != nil {
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	if exists {
		return existing, false, nil
	}

	options, err := s.gameRepo.ListByDate(ctx, date)
	if err != nil {
		return session.Session{}, false, fmt.Errorf("list games by date: %w", err)
	}
	if len(options) == 0 {
		return session.Session{}, false, fmt.Errorf("%w: no games scheduled for %s",
			ErrNotFound, date.Format(time.DateOnly))
	}

	sess, err := s.Create(ctx, userID, options, slate.Mode(prefs.SelectionTiming), isSeries, prefs.FavoriteTeamID)
	if err == nil {
		return sess, true, nil
	}
	if !errors.Is(err, ErrConflict) {
		return session.Session{}, false, err
	}

	// Lost the creation race: exactly one row survived, use it.
	existing, exists, getErr := s.sessionRepo.GetByKey(ctx, userID, date, isSeries)
	if getErr != nil {
		return session.Session{}, false, fmt.Errorf("refetch session after conflict: %w", getErr)
	}
	if !exists {
		return session.Session{}, false, fmt.Errorf("session vanished after conflict: %w", err)
	}
	return existing, false, nil
}

func (s *SessionService) preferencesFor(ctx context.Context, userID string) (user.Preferences, error) {
	prefs, exists, err := s.userRepo.GetPreferences(ctx, userID)
	if err != nil {
		return user.Preferences{}, fmt.Errorf("get user preferences: %w", err)
	}
	if !exists {
		return user.DefaultPreferences(userID), nil
	}
	return prefs, nil
}
