package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pickemhq/pickem/internal/domain/team"
)

type TeamRepository struct {
	mu   sync.RWMutex
	byID map[int]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byID := make(map[int]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}
	return &TeamRepository{byID: byID}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

func (r *TeamRepository) GetByAbbr(_ context.Context, abbr string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	for _, item := range r.byID {
		if strings.ToUpper(item.Abbr) == abbr {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) UpsertBatch(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range teams {
		if item.ID <= 0 {
			continue
		}
		r.byID[item.ID] = item
	}
	return nil
}
