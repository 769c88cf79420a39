package series

import (
	"testing"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// July 1 2024 is a Monday in ISO week 27, so weekday games that week number
// 54 and weekend games 55.
func TestAssign_WeekdayAndWeekendSeries(t *testing.T) {
	t.Parallel()

	games := []game.Game{
		{ID: 1, HomeTeamID: 1, AwayTeamID: 2, Date: day(2024, time.July, 1)},
		{ID: 2, HomeTeamID: 1, AwayTeamID: 2, Date: day(2024, time.July, 2)},
		{ID: 3, HomeTeamID: 2, AwayTeamID: 1, Date: day(2024, time.July, 3)},
		{ID: 4, HomeTeamID: 3, AwayTeamID: 4, Date: day(2024, time.July, 5)},
		{ID: 5, HomeTeamID: 3, AwayTeamID: 4, Date: day(2024, time.July, 6)},
		{ID: 6, HomeTeamID: 4, AwayTeamID: 3, Date: day(2024, time.July, 7)},
	}

	got := Assign(games)

	for _, id := range []int64{1, 2, 3} {
		if got[id] != 54 {
			t.Fatalf("game %d: expected weekday series 54, got %d", id, got[id])
		}
	}
	for _, id := range []int64{4, 5, 6} {
		if got[id] != 55 {
			t.Fatalf("game %d: expected weekend series 55, got %d", id, got[id])
		}
	}
}

func TestAssign_ThursdayBoundary(t *testing.T) {
	t.Parallel()

	games := []game.Game{
		// Thursday opener for a fresh pair joins the weekend series.
		{ID: 10, HomeTeamID: 5, AwayTeamID: 6, Date: day(2024, time.July, 4)},
		{ID: 11, HomeTeamID: 5, AwayTeamID: 6, Date: day(2024, time.July, 5)},
		// Thursday preceded by games for the same pair stays in the weekday series.
		{ID: 20, HomeTeamID: 7, AwayTeamID: 8, Date: day(2024, time.July, 2)},
		{ID: 21, HomeTeamID: 7, AwayTeamID: 8, Date: day(2024, time.July, 3)},
		{ID: 22, HomeTeamID: 8, AwayTeamID: 7, Date: day(2024, time.July, 4)},
	}

	got := Assign(games)

	if got[10] != 55 {
		t.Fatalf("fresh Thursday opener: expected 55, got %d", got[10])
	}
	if got[22] != 54 {
		t.Fatalf("trailing Thursday game: expected 54, got %d", got[22])
	}
}

func TestAssign_PartitionIgnoresHomeAwayOrientation(t *testing.T) {
	t.Parallel()

	games := []game.Game{
		{ID: 30, HomeTeamID: 9, AwayTeamID: 10, Date: day(2024, time.July, 3)},
		{ID: 31, HomeTeamID: 10, AwayTeamID: 9, Date: day(2024, time.July, 4)},
	}

	got := Assign(games)

	// The swapped-orientation Thursday game is not first in its partition.
	if got[31] != 54 {
		t.Fatalf("expected Thursday game to continue weekday series 54, got %d", got[31])
	}
}

func TestAssign_Idempotent(t *testing.T) {
	t.Parallel()

	games := []game.Game{
		{ID: 1, HomeTeamID: 1, AwayTeamID: 2, Date: day(2024, time.July, 1)},
		{ID: 2, HomeTeamID: 1, AwayTeamID: 2, Date: day(2024, time.July, 4)},
		{ID: 3, HomeTeamID: 3, AwayTeamID: 4, Date: day(2024, time.July, 6)},
		{ID: 4, HomeTeamID: 2, AwayTeamID: 1, Date: day(2024, time.July, 9)},
	}

	first := Assign(games)
	second := Assign(games)

	if len(first) != len(second) {
		t.Fatalf("assignment sizes differ: %d vs %d", len(first), len(second))
	}
	for id, n := range first {
		if second[id] != n {
			t.Fatalf("game %d: first run %d, second run %d", id, n, second[id])
		}
	}
}

func TestAssign_GapsInDatesStillWellDefined(t *testing.T) {
	t.Parallel()

	// Non-contiguous dates for one pair: numbering still follows the
	// per-game weekday rule without error.
	games := []game.Game{
		{ID: 40, HomeTeamID: 11, AwayTeamID: 12, Date: day(2024, time.July, 1)},
		{ID: 41, HomeTeamID: 11, AwayTeamID: 12, Date: day(2024, time.July, 22)},
	}

	got := Assign(games)

	if got[40] != 54 {
		t.Fatalf("expected 54 for week 27 Monday, got %d", got[40])
	}
	// July 22 2024 is a Monday in ISO week 30.
	if got[41] != 60 {
		t.Fatalf("expected 60 for week 30 Monday, got %d", got[41])
	}
}
