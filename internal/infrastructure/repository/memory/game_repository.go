package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
)

type GameRepository struct {
	mu   sync.RWMutex
	byID map[int64]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[int64]game.Game, len(games))
	for _, item := range games {
		byID[item.ID] = item
	}
	return &GameRepository{byID: byID}
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

func (r *GameRepository) ListByDate(_ context.Context, date time.Time) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date = game.NormalizeDate(date)
	var out []game.Game
	for _, item := range r.byID {
		if game.NormalizeDate(item.Date).Equal(date) {
			out = append(out, item)
		}
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListByIDs(_ context.Context, ids []int64) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.byID[id]; ok {
			out = append(out, item)
		}
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListBySeries(_ context.Context, seriesNumber int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, item := range r.byID {
		if item.SeriesNumber != nil && *item.SeriesNumber == seriesNumber {
			out = append(out, item)
		}
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListBetweenTeams(_ context.Context, teamA, teamB int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, item := range r.byID {
		if item.HasTeam(teamA) && item.HasTeam(teamB) {
			out = append(out, item)
		}
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListAll(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sortGames(out)

	return out, nil
}

func (r *GameRepository) ListSeriesNumbers(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]struct{})
	var out []int
	for _, item := range r.byID {
		if item.SeriesNumber == nil {
			continue
		}
		if _, ok := seen[*item.SeriesNumber]; ok {
			continue
		}
		seen[*item.SeriesNumber] = struct{}{}
		out = append(out, *item.SeriesNumber)
	}
	sort.Ints(out)

	return out, nil
}

func (r *GameRepository) UpsertBatch(_ context.Context, games []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range games {
		if item.ID <= 0 {
			continue
		}
		// Preserve locally derived fields across re-ingestion.
		if current, ok := r.byID[item.ID]; ok {
			item.SeriesNumber = current.SeriesNumber
			item.IsMarquee = current.IsMarquee
		}
		r.byID[item.ID] = item
	}
	return nil
}

func (r *GameRepository) UpdateSeriesNumbers(_ context.Context, byGameID map[int64]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, number := range byGameID {
		item, ok := r.byID[id]
		if !ok {
			continue
		}
		number := number
		item.SeriesNumber = &number
		r.byID[id] = item
	}
	return nil
}

// ReplaceMarquee clears marquee flags only on the dates covered by the new
// assignment, so dates outside it keep whatever they had.
func (r *GameRepository) ReplaceMarquee(_ context.Context, gameIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dates := make(map[time.Time]struct{}, len(gameIDs))
	chosen := make(map[int64]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		item, ok := r.byID[id]
		if !ok {
			continue
		}
		dates[game.NormalizeDate(item.Date)] = struct{}{}
		chosen[id] = struct{}{}
	}

	for id, item := range r.byID {
		if _, ok := dates[game.NormalizeDate(item.Date)]; !ok {
			continue
		}
		_, marquee := chosen[id]
		if item.IsMarquee != marquee {
			item.IsMarquee = marquee
			r.byID[id] = item
		}
	}
	return nil
}

func sortGames(games []game.Game) {
	sort.Slice(games, func(i, j int) bool {
		if !games[i].StartTimeUTC.Equal(games[j].StartTimeUTC) {
			return games[i].StartTimeUTC.Before(games[j].StartTimeUTC)
		}
		return games[i].ID < games[j].ID
	})
}
