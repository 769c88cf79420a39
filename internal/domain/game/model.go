package game

import "time"

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinal     = "FINAL"
)

// Game is one scheduled matchup: an immutable schedule fact plus a mutable
// outcome filled in once the game has been played.
type Game struct {
	ID           int64
	HomeTeamID   int
	AwayTeamID   int
	HomeName     string
	AwayName     string
	Date         time.Time
	StartTimeUTC time.Time
	Venue        string
	IsMarquee    bool
	SeriesNumber *int
	Finished     bool
	WinnerTeamID *int
	HomeScore    *int
	AwayScore    *int
}

// NormalizeDate truncates a timestamp to its calendar day in UTC. Session keys
// and schedule lookups are always on the normalized day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (g Game) HasTeam(teamID int) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// HomeWon reports whether the home team won. Only meaningful for finished
// games with a recorded winner.
func (g Game) HomeWon() bool {
	return g.WinnerTeamID != nil && *g.WinnerTeamID == g.HomeTeamID
}

// Status derives the coarse game state from stored fields. Live feeds are an
// external concern; this only distinguishes scheduled, in progress and final.
func (g Game) Status(now time.Time) string {
	switch {
	case g.Finished:
		return StatusFinal
	case now.Before(g.StartTimeUTC):
		return StatusScheduled
	default:
		return StatusLive
	}
}
