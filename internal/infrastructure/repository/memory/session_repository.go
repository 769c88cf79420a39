package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pickemhq/pickem/internal/domain/game"
	"github.com/pickemhq/pickem/internal/domain/session"
)

type sessionKey struct {
	userID   string
	date     time.Time
	isSeries bool
}

type SessionRepository struct {
	mu    sync.RWMutex
	byKey map[sessionKey]session.Session

	picks *PickRepository
}

func NewSessionRepository(picks *PickRepository) *SessionRepository {
	return &SessionRepository{
		byKey: make(map[sessionKey]session.Session),
		picks: picks,
	}
}

func (r *SessionRepository) GetByKey(_ context.Context, userID string, date time.Time, isSeries bool) (session.Session, bool, error) {
	r.mu.RLock()
	sess, ok := r.byKey[sessionKey{userID: userID, date: game.NormalizeDate(date), isSeries: isSeries}]
	r.mu.RUnlock()
	if !ok {
		return session.Session{}, false, nil
	}

	// Picks accumulate after creation; rebuild the association on read the way
	// the SQL join does.
	if r.picks != nil {
		r.picks.mu.RLock()
		for _, item := range r.picks.byKey {
			if item.SessionID == sess.ID {
				sess.Picks = append(sess.Picks, item)
			}
		}
		r.picks.mu.RUnlock()
	}

	return sess, true, nil
}

func (r *SessionRepository) Create(_ context.Context, sess session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{userID: sess.UserID, date: game.NormalizeDate(sess.Date), isSeries: sess.IsSeries}
	if _, exists := r.byKey[key]; exists {
		return session.ErrDuplicate
	}

	sess.Picks = nil
	r.byKey[key] = sess
	return nil
}
