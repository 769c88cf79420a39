package pick

import "github.com/pickemhq/pickem/internal/domain/game"

// Pick is one user's prediction for one game. The (UserID, GameID, IsSeries)
// triple is unique: IsSeries selects whether the prediction covers the single
// game or the whole series the game belongs to.
type Pick struct {
	ID         int64
	UserID     string
	GameID     int64
	PickedHome bool
	IsSeries   bool
	Comment    string
	// Correct is nil until the game finishes and the pick is graded.
	Correct *bool
	// SessionID is non-empty when the pick is associated with a session.
	// A pick with no session is a standalone pick.
	SessionID string
}

// Totals is the per-game tally, computed over one snapshot so that
// Total == HomePicks + AwayPicks always holds.
type Totals struct {
	GameID    int64
	Total     int
	HomePicks int
	AwayPicks int
}

// Record is a user's graded win/loss count.
type Record struct {
	Correct int
	Total   int
}

// LeaderboardRow ranks one user by correct session picks.
type LeaderboardRow struct {
	UserID       string
	CorrectPicks int
	TotalPicks   int
}

// HistoryEntry is a pick joined with its game for history listings.
type HistoryEntry struct {
	Pick
	Game      game.Game
	InSession bool
}
