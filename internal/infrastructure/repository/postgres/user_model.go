package postgres

import "github.com/pickemhq/pickem/internal/domain/user"

type userPreferencesTableModel struct {
	UserID          string `db:"user_id"`
	FavoriteTeamID  *int   `db:"favorite_team_id"`
	SelectionTiming string `db:"selection_timing"`
	Description     string `db:"description"`
}

func preferencesFromRow(row userPreferencesTableModel) user.Preferences {
	return user.Preferences{
		UserID:          row.UserID,
		FavoriteTeamID:  row.FavoriteTeamID,
		SelectionTiming: user.SelectionTiming(row.SelectionTiming),
		Description:     row.Description,
	}
}

func preferencesToRow(prefs user.Preferences) userPreferencesTableModel {
	return userPreferencesTableModel{
		UserID:          prefs.UserID,
		FavoriteTeamID:  prefs.FavoriteTeamID,
		SelectionTiming: string(prefs.SelectionTiming),
		Description:     prefs.Description,
	}
}
