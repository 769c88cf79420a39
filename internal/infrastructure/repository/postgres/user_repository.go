package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pickemhq/pickem/internal/domain/user"
	qb "github.com/pickemhq/pickem/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetPreferences(ctx context.Context, userID string) (user.Preferences, bool, error) {
	query, args, err := qb.Select("*").From("user_preferences").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return user.Preferences{}, false, fmt.Errorf("build get preferences query: %w", err)
	}

	var row userPreferencesTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Preferences{}, false, nil
		}
		return user.Preferences{}, false, fmt.Errorf("get preferences: %w", err)
	}

	return preferencesFromRow(row), true, nil
}

func (r *UserRepository) SavePreferences(ctx context.Context, prefs user.Preferences) error {
	query, args, err := qb.InsertModel("user_preferences", preferencesToRow(prefs), `ON CONFLICT (user_id)
DO UPDATE SET
    favorite_team_id = EXCLUDED.favorite_team_id,
    selection_timing = EXCLUDED.selection_timing,
    description = EXCLUDED.description`)
	if err != nil {
		return fmt.Errorf("build save preferences query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
