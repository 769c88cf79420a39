package team

import "context"

// Repository exposes team catalog reads plus the batch write used by ingestion.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int) (Team, bool, error)
	GetByAbbr(ctx context.Context, abbr string) (Team, bool, error)
	UpsertBatch(ctx context.Context, teams []Team) error
}
