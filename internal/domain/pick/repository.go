package pick

import (
	"context"
	"time"
)

// Repository persists picks and serves the aggregates computed over them.
//
// Upsert is conflict-aware: it inserts or, when a row for the same
// (user_id, game_id, is_series) key exists, updates picked_home and comment in
// place and returns the post-update state. When SessionID is set the session
// association is ensured idempotently in the same unit of work. UpsertBatch
// applies the same semantics to every element inside a single transaction:
// either the whole batch commits or none of it does.
type Repository interface {
	GetByKey(ctx context.Context, userID string, gameID int64, isSeries bool) (Pick, bool, error)
	ListByKeys(ctx context.Context, userID string, gameIDs []int64, isSeries bool) ([]Pick, error)
	Upsert(ctx context.Context, p Pick) (Pick, error)
	UpsertBatch(ctx context.Context, items []Pick) ([]Pick, error)
	HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error)
	TotalsForGame(ctx context.Context, gameID int64, isSeries bool) (Totals, error)
	RecordForUser(ctx context.Context, userID string, since *time.Time, until time.Time) (Record, error)
	Leaderboard(ctx context.Context, isSeries bool) ([]LeaderboardRow, error)
	GradeFinished(ctx context.Context) (int, error)
}
