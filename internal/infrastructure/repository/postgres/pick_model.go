package postgres

import (
	"database/sql"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
)

type pickTableModel struct {
	ID         int64          `db:"id"`
	UserID     string         `db:"user_id"`
	GameID     int64          `db:"game_id"`
	PickedHome bool           `db:"picked_home"`
	IsSeries   bool           `db:"is_series"`
	Comment    string         `db:"comment"`
	Correct    *bool          `db:"correct"`
	SessionID  sql.NullString `db:"session_id"`
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:         row.ID,
		UserID:     row.UserID,
		GameID:     row.GameID,
		PickedHome: row.PickedHome,
		IsSeries:   row.IsSeries,
		Comment:    row.Comment,
		Correct:    row.Correct,
		SessionID:  row.SessionID.String,
	}
}

// historyRowModel flattens one pick joined with its game. Column names must
// stay unambiguous across the join, hence the g_ prefixes in the select list.
type historyRowModel struct {
	pickTableModel

	HomeTeamID   int       `db:"g_home_team_id"`
	AwayTeamID   int       `db:"g_away_team_id"`
	HomeName     string    `db:"g_home_name"`
	AwayName     string    `db:"g_away_name"`
	Date         time.Time `db:"g_date"`
	StartTimeUTC time.Time `db:"g_start_time_utc"`
	Venue        string    `db:"g_venue"`
	IsMarquee    bool      `db:"g_is_marquee"`
	SeriesNumber *int      `db:"g_series_number"`
	Finished     bool      `db:"g_finished"`
	WinnerTeamID *int      `db:"g_winner_team_id"`
	HomeScore    *int      `db:"g_home_score"`
	AwayScore    *int      `db:"g_away_score"`
}

func historyEntryFromRow(row historyRowModel) pick.HistoryEntry {
	return pick.HistoryEntry{
		Pick: pickFromRow(row.pickTableModel),
		Game: game.Game{
			ID:           row.GameID,
			HomeTeamID:   row.HomeTeamID,
			AwayTeamID:   row.AwayTeamID,
			HomeName:     row.HomeName,
			AwayName:     row.AwayName,
			Date:         game.NormalizeDate(row.Date),
			StartTimeUTC: row.StartTimeUTC,
			Venue:        row.Venue,
			IsMarquee:    row.IsMarquee,
			SeriesNumber: row.SeriesNumber,
			Finished:     row.Finished,
			WinnerTeamID: row.WinnerTeamID,
			HomeScore:    row.HomeScore,
			AwayScore:    row.AwayScore,
		},
		InSession: row.SessionID.Valid,
	}
}
