package user

import (
	"errors"
	"fmt"
	"strings"
)

// SelectionTiming controls how a user's daily slate is assembled.
type SelectionTiming string

const (
	TimingDaily      SelectionTiming = "daily"
	TimingSeries     SelectionTiming = "series"
	TimingSingleTeam SelectionTiming = "singleteam"
	TimingMarquee    SelectionTiming = "marquee"
)

var ErrUnknownSelectionTiming = errors.New("unknown selection timing")

func ParseSelectionTiming(value string) (SelectionTiming, error) {
	timing := SelectionTiming(strings.ToLower(strings.TrimSpace(value)))
	switch timing {
	case TimingDaily, TimingSeries, TimingSingleTeam, TimingMarquee:
		return timing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSelectionTiming, value)
	}
}

// Preferences parametrize slate generation for one user. Read once per
// request and passed by value; never mutated in place.
type Preferences struct {
	UserID          string
	FavoriteTeamID  *int
	SelectionTiming SelectionTiming
	Description     string
}

// DefaultPreferences is what callers use when a user has stored nothing yet.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:          userID,
		SelectionTiming: TimingDaily,
	}
}

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	UserID string
	Email  string
}
