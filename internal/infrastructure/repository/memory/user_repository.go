package memory

import (
	"context"
	"sync"

	"github.com/pickemhq/pickem/internal/domain/user"
)

type UserRepository struct {
	mu       sync.RWMutex
	byUserID map[string]user.Preferences
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byUserID: make(map[string]user.Preferences)}
}

func (r *UserRepository) GetPreferences(_ context.Context, userID string) (user.Preferences, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.byUserID[userID]
	return prefs, ok, nil
}

func (r *UserRepository) SavePreferences(_ context.Context, prefs user.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUserID[prefs.UserID] = prefs
	return nil
}
