package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickemhq/pickem/internal/domain/game"
	qb "github.com/pickemhq/pickem/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func gameBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("games")
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByDate(ctx context.Context, date time.Time) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("date", game.NormalizeDate(date))).
		OrderBy("start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by date query: %w", err)
	}

	return r.selectGames(ctx, query, args...)
}

func (r *GameRepository) ListByIDs(ctx context.Context, ids []int64) ([]game.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := gameBaseSelectBuilder().
		Where(qb.Expr("id = ANY(?)", pq.Array(ids))).
		OrderBy("start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by ids query: %w", err)
	}

	return r.selectGames(ctx, query, args...)
}

func (r *GameRepository) ListBySeries(ctx context.Context, seriesNumber int) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("series_number", seriesNumber)).
		OrderBy("date", "start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by series query: %w", err)
	}

	return r.selectGames(ctx, query, args...)
}

func (r *GameRepository) ListBetweenTeams(ctx context.Context, teamA, teamB int) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamA, teamA),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamB, teamB),
		).
		OrderBy("date", "start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games between teams query: %w", err)
	}

	return r.selectGames(ctx, query, args...)
}

func (r *GameRepository) ListAll(ctx context.Context) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		OrderBy("date", "start_time_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list all games query: %w", err)
	}

	return r.selectGames(ctx, query, args...)
}

func (r *GameRepository) ListSeriesNumbers(ctx context.Context) ([]int, error) {
	query, args, err := qb.Select("DISTINCT series_number").From("games").
		Where(qb.Expr("series_number IS NOT NULL")).
		OrderBy("series_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list series numbers query: %w", err)
	}

	var out []int
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list series numbers: %w", err)
	}
	return out, nil
}

func (r *GameRepository) UpsertBatch(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin game upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range games {
		query, args, err := qb.InsertModel("games", gameToInsertRow(item), `ON CONFLICT (id)
DO UPDATE SET
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_name = EXCLUDED.home_name,
    away_name = EXCLUDED.away_name,
    date = EXCLUDED.date,
    start_time_utc = EXCLUDED.start_time_utc,
    venue = EXCLUDED.venue,
    finished = EXCLUDED.finished,
    winner_team_id = EXCLUDED.winner_team_id,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score`)
		if err != nil {
			return fmt.Errorf("build game upsert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit game upsert tx: %w", err)
	}
	return nil
}

func (r *GameRepository) UpdateSeriesNumbers(ctx context.Context, byGameID map[int64]int) error {
	if len(byGameID) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin series update tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for id, number := range byGameID {
		query, args, err := qb.Update("games").
			Set("series_number", number).
			Where(qb.Eq("id", id)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build series update query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update series number game=%d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit series update tx: %w", err)
	}
	return nil
}

// ReplaceMarquee rewrites the marquee flag for every date the new assignment
// covers. Dates outside the assignment keep their flags.
func (r *GameRepository) ReplaceMarquee(ctx context.Context, gameIDs []int64) error {
	if len(gameIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin marquee tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearSQL = `UPDATE games SET is_marquee = FALSE
WHERE is_marquee AND date IN (SELECT date FROM games WHERE id = ANY($1))`
	if _, err := tx.ExecContext(ctx, clearSQL, pq.Array(gameIDs)); err != nil {
		return fmt.Errorf("clear marquee flags: %w", err)
	}

	const setSQL = `UPDATE games SET is_marquee = TRUE WHERE id = ANY($1)`
	if _, err := tx.ExecContext(ctx, setSQL, pq.Array(gameIDs)); err != nil {
		return fmt.Errorf("set marquee flags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit marquee tx: %w", err)
	}
	return nil
}

func (r *GameRepository) selectGames(ctx context.Context, query string, args ...any) ([]game.Game, error) {
	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}
