package slate

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pickemhq/pickem/internal/domain/game"
)

const (
	// DailySlateSize caps the daily mode slate.
	DailySlateSize = 4
	// MarqueeSlateSize caps the marquee mode slate.
	MarqueeSlateSize = 2
)

// Mode selects the slate assembly rule. Values mirror the stored selection
// timing preference.
type Mode string

const (
	ModeDaily      Mode = "daily"
	ModeSeries     Mode = "series"
	ModeSingleTeam Mode = "singleteam"
	ModeMarquee    Mode = "marquee"
)

// ErrUnsupportedMode is returned for the series mode, whose slate rule has no
// defined business behavior yet, and for unknown mode values. Callers must
// fail fast rather than fall back to another mode's rule.
var ErrUnsupportedMode = errors.New("unsupported selection mode")

func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case ModeDaily, ModeSingleTeam, ModeMarquee:
		return mode, nil
	case ModeSeries:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, value)
	}
}

// Build computes the slate of games a user may pick from the day's options.
// It is a pure function of its inputs: callers persist the result.
//
// Daily mode offers the favorite-team game, then the marquee game, then a
// random fill up to four games. Singleteam offers only the favorite-team game
// with the marquee game as fallback. Marquee offers the marquee game first and
// fills up to two. A game that is both marquee and favorite is never counted
// twice. Empty options yield an empty slate, not an error.
func Build(options []game.Game, mode Mode, favoriteTeamID *int, rng *rand.Rand) ([]game.Game, error) {
	switch mode {
	case ModeDaily, ModeSingleTeam, ModeMarquee:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
	if len(options) == 0 {
		return []game.Game{}, nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	favoriteIdx, marqueeIdx := -1, -1
	for i, g := range options {
		if marqueeIdx == -1 && g.IsMarquee {
			marqueeIdx = i
		}
		if favoriteIdx == -1 && favoriteTeamID != nil && g.HasTeam(*favoriteTeamID) {
			favoriteIdx = i
		}
	}

	remainder := make([]game.Game, 0, len(options))
	for i, g := range options {
		if i == favoriteIdx || i == marqueeIdx {
			continue
		}
		remainder = append(remainder, g)
	}

	slate := make([]game.Game, 0, DailySlateSize)
	switch mode {
	case ModeDaily:
		if favoriteIdx >= 0 {
			slate = append(slate, options[favoriteIdx])
		}
		if marqueeIdx >= 0 && marqueeIdx != favoriteIdx {
			slate = append(slate, options[marqueeIdx])
		}
		slate = fillRandom(slate, remainder, DailySlateSize, rng)
	case ModeSingleTeam:
		if favoriteIdx >= 0 {
			slate = append(slate, options[favoriteIdx])
		} else if marqueeIdx >= 0 {
			slate = append(slate, options[marqueeIdx])
		}
	case ModeMarquee:
		if marqueeIdx >= 0 {
			slate = append(slate, options[marqueeIdx])
		}
		if favoriteIdx >= 0 && favoriteIdx != marqueeIdx {
			slate = append(slate, options[favoriteIdx])
		}
		slate = fillRandom(slate, remainder, MarqueeSlateSize, rng)
	}

	return slate, nil
}

// fillRandom draws uniformly without replacement from pool until the slate
// reaches target size or the pool is exhausted.
func fillRandom(slate, pool []game.Game, target int, rng *rand.Rand) []game.Game {
	need := target - len(slate)
	if need <= 0 || len(pool) == 0 {
		return slate
	}
	if need > len(pool) {
		need = len(pool)
	}
	for _, j := range rng.Perm(len(pool))[:need] {
		slate = append(slate, pool[j])
	}
	return slate
}
