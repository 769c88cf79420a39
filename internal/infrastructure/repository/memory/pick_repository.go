package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
)

type pickKey struct {
	userID   string
	gameID   int64
	isSeries bool
}

type PickRepository struct {
	mu     sync.RWMutex
	byKey  map[pickKey]pick.Pick
	nextID int64

	games *GameRepository
}

func NewPickRepository(games *GameRepository) *PickRepository {
	return &PickRepository{
		byKey:  make(map[pickKey]pick.Pick),
		nextID: 1,
		games:  games,
	}
}

func (r *PickRepository) GetByKey(_ context.Context, userID string, gameID int64, isSeries bool) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byKey[pickKey{userID: userID, gameID: gameID, isSeries: isSeries}]
	return item, ok, nil
}

func (r *PickRepository) ListByKeys(_ context.Context, userID string, gameIDs []int64, isSeries bool) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		if item, ok := r.byKey[pickKey{userID: userID, gameID: gameID, isSeries: isSeries}]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PickRepository) Upsert(_ context.Context, p pick.Pick) (pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.upsertLocked(p), nil
}

func (r *PickRepository) UpsertBatch(_ context.Context, items []pick.Pick) ([]pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]pick.Pick, 0, len(items))
	for _, item := range items {
		out = append(out, r.upsertLocked(item))
	}
	return out, nil
}

// upsertLocked mirrors the conflict-aware SQL upsert: an existing row keeps
// its identity, session link and grade, only picked_home and comment move.
func (r *PickRepository) upsertLocked(p pick.Pick) pick.Pick {
	key := pickKey{userID: p.UserID, gameID: p.GameID, isSeries: p.IsSeries}
	if current, ok := r.byKey[key]; ok {
		current.PickedHome = p.PickedHome
		current.Comment = p.Comment
		r.byKey[key] = current
		return current
	}

	p.ID = r.nextID
	r.nextID++
	r.byKey[key] = p
	return p
}

func (r *PickRepository) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]pick.HistoryEntry, error) {
	r.mu.RLock()
	picks := make([]pick.Pick, 0)
	for key, item := range r.byKey {
		if key.userID == userID {
			picks = append(picks, item)
		}
	}
	r.mu.RUnlock()

	entries := make([]pick.HistoryEntry, 0, len(picks))
	for _, item := range picks {
		g, ok, err := r.games.GetByID(ctx, item.GameID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		entries = append(entries, pick.HistoryEntry{
			Pick:      item,
			Game:      g,
			InSession: item.SessionID != "",
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Game.StartTimeUTC.Equal(entries[j].Game.StartTimeUTC) {
			return entries[i].Game.StartTimeUTC.After(entries[j].Game.StartTimeUTC)
		}
		return entries[i].Pick.ID > entries[j].Pick.ID
	})

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *PickRepository) TotalsForGame(_ context.Context, gameID int64, isSeries bool) (pick.Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := pick.Totals{GameID: gameID}
	for key, item := range r.byKey {
		if key.gameID != gameID || key.isSeries != isSeries {
			continue
		}
		totals.Total++
		if item.PickedHome {
			totals.HomePicks++
		} else {
			totals.AwayPicks++
		}
	}
	return totals, nil
}

func (r *PickRepository) RecordForUser(ctx context.Context, userID string, since *time.Time, until time.Time) (pick.Record, error) {
	r.mu.RLock()
	picks := make([]pick.Pick, 0)
	for key, item := range r.byKey {
		if key.userID == userID && item.Correct != nil {
			picks = append(picks, item)
		}
	}
	r.mu.RUnlock()

	record := pick.Record{}
	for _, item := range picks {
		g, ok, err := r.games.GetByID(ctx, item.GameID)
		if err != nil {
			return pick.Record{}, err
		}
		if !ok {
			continue
		}
		date := game.NormalizeDate(g.Date)
		if since != nil && date.Before(game.NormalizeDate(*since)) {
			continue
		}
		if date.After(game.NormalizeDate(until)) {
			continue
		}
		record.Total++
		if *item.Correct {
			record.Correct++
		}
	}
	return record, nil
}

func (r *PickRepository) Leaderboard(_ context.Context, isSeries bool) ([]pick.LeaderboardRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := make(map[string]*pick.LeaderboardRow)
	for key, item := range r.byKey {
		if key.isSeries != isSeries || item.SessionID == "" {
			continue
		}
		row, ok := byUser[key.userID]
		if !ok {
			row = &pick.LeaderboardRow{UserID: key.userID}
			byUser[key.userID] = row
		}
		row.TotalPicks++
		if item.Correct != nil && *item.Correct {
			row.CorrectPicks++
		}
	}

	out := make([]pick.LeaderboardRow, 0, len(byUser))
	for _, row := range byUser {
		out = append(out, *row)
	}
	// Deterministic tie order: user id ascending within equal correct counts.
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CorrectPicks > out[j].CorrectPicks })

	return out, nil
}

func (r *PickRepository) GradeFinished(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	graded := 0
	for key, item := range r.byKey {
		if item.Correct != nil {
			continue
		}
		g, ok, err := r.games.GetByID(ctx, item.GameID)
		if err != nil {
			return graded, err
		}
		if !ok || !g.Finished || g.WinnerTeamID == nil {
			continue
		}
		correct := item.PickedHome == g.HomeWon()
		item.Correct = &correct
		r.byKey[key] = item
		graded++
	}
	return graded, nil
}
