package postgres

import (
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
)

type gameTableModel struct {
	ID           int64     `db:"id"`
	HomeTeamID   int       `db:"home_team_id"`
	AwayTeamID   int       `db:"away_team_id"`
	HomeName     string    `db:"home_name"`
	AwayName     string    `db:"away_name"`
	Date         time.Time `db:"date"`
	StartTimeUTC time.Time `db:"start_time_utc"`
	Venue        string    `db:"venue"`
	IsMarquee    bool      `db:"is_marquee"`
	SeriesNumber *int      `db:"series_number"`
	Finished     bool      `db:"finished"`
	WinnerTeamID *int      `db:"winner_team_id"`
	HomeScore    *int      `db:"home_score"`
	AwayScore    *int      `db:"away_score"`
}

// gameInsertModel omits is_marquee and series_number: those are derived
// locally and must survive schedule re-ingestion.
type gameInsertModel struct {
	ID           int64     `db:"id"`
	HomeTeamID   int       `db:"home_team_id"`
	AwayTeamID   int       `db:"away_team_id"`
	HomeName     string    `db:"home_name"`
	AwayName     string    `db:"away_name"`
	Date         time.Time `db:"date"`
	StartTimeUTC time.Time `db:"start_time_utc"`
	Venue        string    `db:"venue"`
	Finished     bool      `db:"finished"`
	WinnerTeamID *int      `db:"winner_team_id"`
	HomeScore    *int      `db:"home_score"`
	AwayScore    *int      `db:"away_score"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:           row.ID,
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
	}
}

func gameToInsertRow(item game.Game) gameInsertModel {
	return gameInsertModel{
		ID:           item.ID,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		HomeName:     item.HomeName,
		AwayName:     item.AwayName,
		Date:         game.NormalizeDate(item.Date),
		StartTimeUTC: item.StartTimeUTC,
		Venue:        item.Venue,
		Finished:     item.Finished,
		WinnerTeamID: item.WinnerTeamID,
		HomeScore:    item.HomeScore,
		AwayScore:    item.AwayScore,
	}
}
