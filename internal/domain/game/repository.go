package game

import (
	"context"
	"time"
)

// Repository is the game catalog. Reads serve the request path; the batch
// writes are reserved for ingestion and offline maintenance jobs.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]Game, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Game, error)
	ListBySeries(ctx context.Context, seriesNumber int) ([]Game, error)
	ListBetweenTeams(ctx context.Context, teamA, teamB int) ([]Game, error)
	ListAll(ctx context.Context) ([]Game, error)
	ListSeriesNumbers(ctx context.Context) ([]int, error)
	UpsertBatch(ctx context.Context, games []Game) error
	UpdateSeriesNumbers(ctx context.Context, byGameID map[int64]int) error
	ReplaceMarquee(ctx context.Context, gameIDs []int64) error
}
