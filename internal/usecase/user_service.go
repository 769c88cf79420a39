package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pickemhq/pickem/internal/domain/team"
	"github.com/pickemhq/pickem/internal/domain/user"
)

// SavePreferencesInput carries a preferences upsert.
type SavePreferencesInput struct {
	UserID          string
	FavoriteTeamID  *int
	SelectionTiming string
	Description     string
}

// UserService stores and serves user preferences.
type UserService struct {
	userRepo user.Repository
	teamRepo team.Repository
}

func NewUserService(userRepo user.Repository, teamRepo team.Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

// Preferences returns the stored preferences, or defaults when the user has
// saved nothing yet. Absence is never an error.
func (s *UserService) Preferences(ctx context.Context, userID string) (user.Preferences, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Preferences")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.Preferences{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	prefs, exists, err := s.userRepo.GetPreferences(ctx, userID)
	if err != nil {
		return user.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	if !exists {
		return user.DefaultPreferences(userID), nil
	}
	return prefs, nil
}

// SavePreferences validates and upserts the user's preferences.
func (s *UserService) SavePreferences(ctx context.Context, input SavePreferencesInput) (user.Preferences, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.SavePreferences")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return user.Preferences{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	timing, err := user.ParseSelectionTiming(input.SelectionTiming)
	if err != nil {
		if errors.Is(err, user.ErrUnknownSelectionTiming) {
			return user.Preferences{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return user.Preferences{}, fmt.Errorf("parse selection timing: %w", err)
	}

	if input.FavoriteTeamID != nil {
		_, exists, err := s.teamRepo.GetByID(ctx, *input.FavoriteTeamID)
		if err != nil {
			return user.Preferences{}, fmt.Errorf("get favorite team: %w", err)
		}
		if !exists {
			return user.Preferences{}, fmt.Errorf("%w: team=%d", ErrNotFound, *input.FavoriteTeamID)
		}
	}

	prefs := user.Preferences{
		UserID:          input.UserID,
		FavoriteTeamID:  input.FavoriteTeamID,
		SelectionTiming: timing,
		Description:     strings.TrimSpace(input.Description),
	}
	if err := s.userRepo.SavePreferences(ctx, prefs); err != nil {
		return user.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}
