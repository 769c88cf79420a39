package session

import (
	"errors"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
)

// ErrDuplicate is returned by Repository.Create when a session for the same
// (user, date, mode) key already exists. The composite uniqueness constraint
// is the source of truth; callers recover by re-fetching.
var ErrDuplicate = errors.New("session already exists for user, date and mode")

// Session is the persisted slate a user was offered for one (date, mode) key,
// plus the picks they have committed against it. Games are fixed at creation;
// the pick set grows as the user submits picks for member games.
type Session struct {
	ID       string
	UserID   string
	Date     time.Time
	IsSeries bool
	Games    []game.Game
	Picks    []pick.Pick
}

func (s Session) HasGame(gameID int64) bool {
	for _, g := range s.Games {
		if g.ID == gameID {
			return true
		}
	}
	return false
}

func (s Session) GameIDs() []int64 {
	ids := make([]int64, 0, len(s.Games))
	for _, g := range s.Games {
		ids = append(ids, g.ID)
	}
	return ids
}
