package user

import "context"

// Repository stores per-user preferences.
type Repository interface {
	GetPreferences(ctx context.Context, userID string) (Preferences, bool, error)
	// SavePreferences inserts or replaces the stored preferences for the user.
	SavePreferences(ctx context.Context, prefs Preferences) error
}
