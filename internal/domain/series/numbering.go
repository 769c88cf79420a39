package series

import (
	"sort"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
)

type pairKey struct {
	low, high int
}

func keyFor(g game.Game) pairKey {
	if g.HomeTeamID <= g.AwayTeamID {
		return pairKey{low: g.HomeTeamID, high: g.AwayTeamID}
	}
	return pairKey{low: g.AwayTeamID, high: g.HomeTeamID}
}

// Assign computes a series number for every game. Games between the same two
// teams are partitioned together regardless of home/away orientation and
// ordered by date; the number is derived from the ISO week so that every
// series ends on a weekend:
//
//   - Friday/Saturday/Sunday games open or extend the weekend series
//     (week*2 + 1).
//   - Monday through Wednesday games belong to the weekday series (week*2).
//   - A Thursday game opens the weekend series only when it is the first game
//     of its partition; otherwise it closes out the weekday series.
//
// Assign is a pure recomputation over the whole catalog and is idempotent:
// running it twice yields identical assignments.
func Assign(games []game.Game) map[int64]int {
	partitions := make(map[pairKey][]game.Game)
	for _, g := range games {
		k := keyFor(g)
		partitions[k] = append(partitions[k], g)
	}

	out := make(map[int64]int, len(games))
	for _, part := range partitions {
		sort.Slice(part, func(i, j int) bool {
			if !part[i].Date.Equal(part[j].Date) {
				return part[i].Date.Before(part[j].Date)
			}
			if !part[i].StartTimeUTC.Equal(part[j].StartTimeUTC) {
				return part[i].StartTimeUTC.Before(part[j].StartTimeUTC)
			}
			return part[i].ID < part[j].ID
		})

		for i, g := range part {
			out[g.ID] = numberFor(g.Date, i == 0)
		}
	}

	return out
}

func numberFor(date time.Time, firstOfPartition bool) int {
	_, week := date.ISOWeek()
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return week*2 + 1
	case time.Thursday:
		if firstOfPartition {
			return week*2 + 1
		}
		return week * 2
	default:
		return week * 2
	}
}
