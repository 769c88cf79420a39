package postgres

import (
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/session"
)

type sessionTableModel struct {
	ID       string    `db:"id"`
	UserID   string    `db:"user_id"`
	Date     time.Time `db:"date"`
	IsSeries bool      `db:"is_series"`
}

func sessionFromRow(row sessionTableModel) session.Session {
	return session.Session{
		ID:       row.ID,
		UserID:   row.UserID,
		Date:     game.NormalizeDate(row.Date),
		IsSeries: row.IsSeries,
	}
}
