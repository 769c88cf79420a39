package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/pick"
	"github.com/pickemhq/pickem/internal/domain/session"
	qb "github.com/pickemhq/pickem/internal/platform/querybuilder"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByKey(ctx context.Context, userID string, date time.Time, isSeries bool) (session.Session, bool, error) {
	query, args, err := qb.Select("*").From("sessions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("date", game.NormalizeDate(date)),
			qb.Eq("is_series", isSeries),
		).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build get session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	sess := sessionFromRow(row)
	if sess.Games, err = r.sessionGames(ctx, sess.ID); err != nil {
		return session.Session{}, false, err
	}
	if sess.Picks, err = r.sessionPicks(ctx, sess.ID); err != nil {
		return session.Session{}, false, err
	}
	return sess, true, nil
}

func (r *SessionRepository) Create(ctx context.Context, sess session.Session) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertQuery, insertArgs, err := qb.InsertInto("sessions").
		Columns("id", "user_id", "date", "is_series").
		Values(sess.ID, sess.UserID, game.NormalizeDate(sess.Date), sess.IsSeries).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build session insert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err) {
			return session.ErrDuplicate
		}
		return fmt.Errorf("insert session: %w", err)
	}

	if len(sess.Games) > 0 {
		builder := qb.InsertInto("session_games").Columns("session_id", "game_id")
		for _, g := range sess.Games {
			builder = builder.Values(sess.ID, g.ID)
		}
		memberQuery, memberArgs, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build session games query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
			return fmt.Errorf("insert session games: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session create tx: %w", err)
	}
	return nil
}

func (r *SessionRepository) sessionGames(ctx context.Context, sessionID string) ([]game.Game, error) {
	query, args, err := qb.Select("g.*").
		From("session_games sg JOIN games g ON g.id = sg.game_id").
		Where(qb.Eq("sg.session_id", sessionID)).
		OrderBy("g.start_time_utc", "g.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build session games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list session games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *SessionRepository) sessionPicks(ctx context.Context, sessionID string) ([]pick.Pick, error) {
	query, args, err := qb.Select(pickSelectColumns).
		From("picks p JOIN session_picks sp ON sp.pick_id = p.id").
		Where(qb.Eq("sp.session_id", sessionID)).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build session picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list session picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}
