package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/team"
	basecache "github.com/pickemhq/pickem/internal/platform/cache"
)

// TeamRepository caches the team catalog. Teams change only on schedule
// ingestion, so reads are served from cache until an ingestion write lands.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int) (team.Team, bool, error) {
	key := "team:id:" + strconv.Itoa(id)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByAbbr(ctx context.Context, abbr string) (team.Team, bool, error) {
	key := "team:abbr:" + strings.ToUpper(strings.TrimSpace(abbr))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByAbbr(ctx, abbr)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) UpsertBatch(ctx context.Context, teams []team.Team) error {
	if err := r.next.UpsertBatch(ctx, teams); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

// GameRepository caches schedule reads. Every write path flushes the whole
// game keyspace: series renumbering and marquee rotation both touch rows
// that many list keys overlap.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	key := "game:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedGame{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGame)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) ListByDate(ctx context.Context, date time.Time) ([]game.Game, error) {
	key := "game:date:" + game.NormalizeDate(date).Format("2006-01-02")
	return r.cachedList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListByDate(ctx, date)
	})
}

func (r *GameRepository) ListByIDs(ctx context.Context, ids []int64) ([]game.Game, error) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	key := "game:ids:" + strings.Join(parts, ",")
	return r.cachedList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListByIDs(ctx, ids)
	})
}

func (r *GameRepository) ListBySeries(ctx context.Context, seriesNumber int) ([]game.Game, error) {
	key := "game:series:" + strconv.Itoa(seriesNumber)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListBySeries(ctx, seriesNumber)
	})
}

func (r *GameRepository) ListBetweenTeams(ctx context.Context, teamA, teamB int) ([]game.Game, error) {
	if teamA > teamB {
		teamA, teamB = teamB, teamA
	}
	key := "game:between:" + strconv.Itoa(teamA) + ":" + strconv.Itoa(teamB)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]game.Game, error) {
		return r.next.ListBetweenTeams(ctx, teamA, teamB)
	})
}

func (r *GameRepository) ListAll(ctx context.Context) ([]game.Game, error) {
	return r.cachedList(ctx, "game:all", r.next.ListAll)
}

func (r *GameRepository) ListSeriesNumbers(ctx context.Context) ([]int, error) {
	v, err := r.cache.GetOrLoad(ctx, "game:series-numbers", func(ctx context.Context) (any, error) {
		items, err := r.next.ListSeriesNumbers(ctx)
		if err != nil {
			return nil, err
		}
		return append([]int(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]int)
	return append([]int(nil), items...), nil
}

func (r *GameRepository) UpsertBatch(ctx context.Context, games []game.Game) error {
	if err := r.next.UpsertBatch(ctx, games); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) UpdateSeriesNumbers(ctx context.Context, byGameID map[int64]int) error {
	if err := r.next.UpdateSeriesNumbers(ctx, byGameID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) ReplaceMarquee(ctx context.Context, gameIDs []int64) error {
	if err := r.next.ReplaceMarquee(ctx, gameIDs); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]game.Game, error)) ([]game.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

type cachedGame struct {
	value  game.Game
	exists bool
}
