package usecase

import (
	"errors"
	"testing"

	"github.com/pickemhq/pickem/internal/domain/user"
	"github.com/pickemhq/pickem/internal/infrastructure/repository/memory"
)

func newUserFixture() *UserService {
	return NewUserService(memory.NewUserRepository(), memory.NewTeamRepository(memory.SeedTeams()))
}

func TestUserService_Preferences_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	svc := newUserFixture()

	prefs, err := svc.Preferences(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if prefs.SelectionTiming != user.TimingDaily {
		t.Fatalf("expected daily default, got %s", prefs.SelectionTiming)
	}
	if prefs.FavoriteTeamID != nil {
		t.Fatal("expected no default favorite team")
	}
}

func TestUserService_SavePreferences_Roundtrip(t *testing.T) {
	t.Parallel()

	svc := newUserFixture()

	favorite := memory.TeamIDDodgers
	saved, err := svc.SavePreferences(t.Context(), SavePreferencesInput{
		UserID:          "user-1",
		FavoriteTeamID:  &favorite,
		SelectionTiming: "Marquee",
		Description:     "  night games only  ",
	})
	if err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	if saved.SelectionTiming != user.TimingMarquee {
		t.Fatalf("unexpected timing: %s", saved.SelectionTiming)
	}
	if saved.Description != "night games only" {
		t.Fatalf("description not trimmed: %q", saved.Description)
	}

	prefs, err := svc.Preferences(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if prefs.FavoriteTeamID == nil || *prefs.FavoriteTeamID != favorite {
		t.Fatalf("favorite team lost in roundtrip: %+v", prefs.FavoriteTeamID)
	}
}

func TestUserService_SavePreferences_UnknownTiming(t *testing.T) {
	t.Parallel()

	svc := newUserFixture()

	_, err := svc.SavePreferences(t.Context(), SavePreferencesInput{
		UserID:          "user-1",
		SelectionTiming: "weekly",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_SavePreferences_UnknownFavoriteTeam(t *testing.T) {
	t.Parallel()

	svc := newUserFixture()

	unknown := 9999
	_, err := svc.SavePreferences(t.Context(), SavePreferencesInput{
		UserID:          "user-1",
		FavoriteTeamID:  &unknown,
		SelectionTiming: "daily",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
