package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	qb "github.com/pickemhq/pickem/internal/platform/querybuilder"
)

const pickSelectColumns = `p.id, p.user_id, p.game_id, p.picked_home, p.is_series, p.comment, p.correct, sp.session_id`

const pickUpsertSQL = `INSERT INTO picks (user_id, game_id, picked_home, is_series, comment)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, game_id, is_series)
DO UPDATE SET
    picked_home = EXCLUDED.picked_home,
    comment = EXCLUDED.comment
RETURNING id, user_id, game_id, picked_home, is_series, comment, correct`

const sessionPickLinkSQL = `INSERT INTO session_picks (session_id, pick_id)
VALUES ($1, $2)
ON CONFLICT (pick_id) DO NOTHING`

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func pickBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(pickSelectColumns).
		From("picks p LEFT JOIN session_picks sp ON sp.pick_id = p.id")
}

func (r *PickRepository) GetByKey(ctx context.Context, userID string, gameID int64, isSeries bool) (pick.Pick, bool, error) {
	query, args, err := pickBaseSelectBuilder().
		Where(
			qb.Eq("p.user_id", userID),
			qb.Eq("p.game_id", gameID),
			qb.Eq("p.is_series", isSeries),
		).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByKeys(ctx context.Context, userID string, gameIDs []int64, isSeries bool) ([]pick.Pick, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	query, args, err := pickBaseSelectBuilder().
		Where(
			qb.Eq("p.user_id", userID),
			qb.Expr("p.game_id = ANY(?)", pq.Array(gameIDs)),
			qb.Eq("p.is_series", isSeries),
		).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}

func (r *PickRepository) Upsert(ctx context.Context, p pick.Pick) (pick.Pick, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("begin pick upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	saved, err := upsertPickTx(ctx, tx, p)
	if err != nil {
		return pick.Pick{}, err
	}

	if err := tx.Commit(); err != nil {
		return pick.Pick{}, fmt.Errorf("commit pick upsert tx: %w", err)
	}
	return saved, nil
}

func (r *PickRepository) UpsertBatch(ctx context.Context, items []pick.Pick) ([]pick.Pick, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin pick batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]pick.Pick, 0, len(items))
	for _, item := range items {
		saved, err := upsertPickTx(ctx, tx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit pick batch tx: %w", err)
	}
	return out, nil
}

// upsertPickTx inserts or revises one pick inside the caller's transaction.
// Only picked_home and comment move on conflict; identity, grade and an
// existing session link stay put.
func upsertPickTx(ctx context.Context, tx *sqlx.Tx, p pick.Pick) (pick.Pick, error) {
	var row pickTableModel
	err := tx.GetContext(ctx, &row, pickUpsertSQL,
		p.UserID, p.GameID, p.PickedHome, p.IsSeries, p.Comment)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("upsert pick user=%s game=%d: %w", p.UserID, p.GameID, err)
	}

	if p.SessionID != "" {
		if _, err := tx.ExecContext(ctx, sessionPickLinkSQL, p.SessionID, row.ID); err != nil {
			return pick.Pick{}, fmt.Errorf("link pick=%d to session=%s: %w", row.ID, p.SessionID, err)
		}
	}

	linkQuery, linkArgs, err := qb.Select("session_id").From("session_picks").
		Where(qb.Eq("pick_id", row.ID)).
		ToSQL()
	if err != nil {
		return pick.Pick{}, fmt.Errorf("build session link query: %w", err)
	}
	if err := tx.GetContext(ctx, &row.SessionID, linkQuery, linkArgs...); err != nil && !isNotFound(err) {
		return pick.Pick{}, fmt.Errorf("get session link for pick=%d: %w", row.ID, err)
	}

	return pickFromRow(row), nil
}

func (r *PickRepository) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]pick.HistoryEntry, error) {
	builder := qb.Select(pickSelectColumns + `,
    g.home_team_id AS g_home_team_id,
    g.away_team_id AS g_away_team_id,
    g.home_name AS g_home_name,
    g.away_name AS g_away_name,
    g.date AS g_date,
    g.start_time_utc AS g_start_time_utc,
    g.venue AS g_venue,
    g.is_marquee AS g_is_marquee,
    g.series_number AS g_series_number,
    g.finished AS g_finished,
    g.winner_team_id AS g_winner_team_id,
    g.home_score AS g_home_score,
    g.away_score AS g_away_score`).
		From(`picks p
JOIN games g ON g.id = p.game_id
LEFT JOIN session_picks sp ON sp.pick_id = p.id`).
		Where(qb.Eq("p.user_id", userID)).
		OrderBy("g.start_time_utc DESC", "p.id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	if offset > 0 {
		builder = builder.Offset(offset)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pick history query: %w", err)
	}

	var rows []historyRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pick history: %w", err)
	}

	out := make([]pick.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyEntryFromRow(row))
	}
	return out, nil
}

func (r *PickRepository) TotalsForGame(ctx context.Context, gameID int64, isSeries bool) (pick.Totals, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE picked_home) AS home_picks",
	).
		From("picks").
		Where(qb.Eq("game_id", gameID), qb.Eq("is_series", isSeries)).
		ToSQL()
	if err != nil {
		return pick.Totals{}, fmt.Errorf("build pick totals query: %w", err)
	}

	var row struct {
		Total     int `db:"total"`
		HomePicks int `db:"home_picks"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return pick.Totals{}, fmt.Errorf("get pick totals: %w", err)
	}

	return pick.Totals{
		GameID:    gameID,
		Total:     row.Total,
		HomePicks: row.HomePicks,
		AwayPicks: row.Total - row.HomePicks,
	}, nil
}

func (r *PickRepository) RecordForUser(ctx context.Context, userID string, since *time.Time, until time.Time) (pick.Record, error) {
	conds := []qb.Condition{
		qb.Eq("p.user_id", userID),
		qb.Expr("p.correct IS NOT NULL"),
		qb.Expr("g.date <= ?", game.NormalizeDate(until)),
	}
	if since != nil {
		conds = append(conds, qb.Expr("g.date >= ?", game.NormalizeDate(*since)))
	}

	query, args, err := qb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE p.correct) AS correct",
	).
		From("picks p JOIN games g ON g.id = p.game_id").
		Where(conds...).
		ToSQL()
	if err != nil {
		return pick.Record{}, fmt.Errorf("build pick record query: %w", err)
	}

	var row struct {
		Total   int `db:"total"`
		Correct int `db:"correct"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return pick.Record{}, fmt.Errorf("get pick record: %w", err)
	}

	return pick.Record{Correct: row.Correct, Total: row.Total}, nil
}

func (r *PickRepository) Leaderboard(ctx context.Context, isSeries bool) ([]pick.LeaderboardRow, error) {
	query, args, err := qb.Select(
		"p.user_id",
		"COUNT(*) FILTER (WHERE p.correct) AS correct_picks",
		"COUNT(*) AS total_picks",
	).
		From("picks p JOIN session_picks sp ON sp.pick_id = p.id").
		Where(qb.Eq("p.is_series", isSeries)).
		GroupBy("p.user_id").
		OrderBy("correct_picks DESC", "p.user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	var rows []struct {
		UserID       string `db:"user_id"`
		CorrectPicks int    `db:"correct_picks"`
		TotalPicks   int    `db:"total_picks"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	out := make([]pick.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, pick.LeaderboardRow{
			UserID:       row.UserID,
			CorrectPicks: row.CorrectPicks,
			TotalPicks:   row.TotalPicks,
		})
	}
	return out, nil
}

func (r *PickRepository) GradeFinished(ctx context.Context) (int, error) {
	const gradeSQL = `UPDATE picks p
SET correct = (p.picked_home = (g.winner_team_id = g.home_team_id))
FROM games g
WHERE g.id = p.game_id
  AND p.correct IS NULL
  AND g.finished
  AND g.winner_team_id IS NOT NULL`

	res, err := r.db.ExecContext(ctx, gradeSQL)
	if err != nil {
		return 0, fmt.Errorf("grade finished picks: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("grade finished picks rows affected: %w", err)
	}
	return int(affected), nil
}
