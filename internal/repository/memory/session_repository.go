package memory

import (
	"time"

	"contract-review-fe/internal/session"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live session controllers in memory. Idle sessions
// expire after the TTL; eviction closes the controller so its notification
// timers are cancelled rather than left dangling.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ctrl, ok := v.(*session.Controller); ok {
			ctrl.Close()
		}
	})
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctrl *session.Controller) {
	r.cache.Set(ctrl.ID().String(), ctrl, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID uuid.UUID) (*session.Controller, bool) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*session.Controller), true
	}
	return nil, false
}

// Touch extends the TTL of an active session.
func (r *SessionRepository) Touch(sessionID uuid.UUID) {
	if x, found := r.cache.Get(sessionID.String()); found {
		r.cache.Set(sessionID.String(), x, cache.DefaultExpiration)
	}
}

func (r *SessionRepository) Delete(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}
