package memory

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"quotegen/internal/domain"
	"quotegen/internal/port"
)

type entry struct {
	session domain.Session
	touched time.Time
}

// SessionRepo is an in-memory SessionRepository. Sessions idle for longer than the TTL are
// treated as gone and removed by Sweep.
type SessionRepo struct {
	mu          sync.Mutex
	items       map[uuid.UUID]entry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	onEvict     func(id uuid.UUID)
}

var _ port.SessionRepository = (*SessionRepo)(nil)

// NewSessionRepo creates a session store. A zero ttl disables expiry and a zero maxSessions
// disables the capacity limit.
func NewSessionRepo(ttl time.Duration, maxSessions int) *SessionRepo {
	return &SessionRepo{
		items:       make(map[uuid.UUID]entry),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// OnEvict registers fn to be told about every session the store drops, whether it expired or
// was deleted. fn runs with the store locked and must not call back into it.
func (r *SessionRepo) OnEvict(fn func(id uuid.UUID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = fn
}

func (r *SessionRepo) evictLocked(id uuid.UUID) {
	delete(r.items, id)
	if r.onEvict != nil {
		r.onEvict(id)
	}
}

func (r *SessionRepo) expired(e entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.touched) > r.ttl
}

func (r *SessionRepo) Create(_ context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[s.ID]; ok {
		return fmt.Errorf("sessionRepo.Create: session %s already exists", s.ID)
	}
	now := r.now()
	if r.maxSessions > 0 && len(r.items) >= r.maxSessions {
		r.sweepLocked(now)
		if len(r.items) >= r.maxSessions {
			return domain.ErrTooManySessions
		}
	}
	r.items[s.ID] = entry{session: s.Clone(), touched: now}
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if r.expired(e, r.now()) {
		r.evictLocked(id)
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

func (r *SessionRepo) Update(_ context.Context, id uuid.UUID, fn port.SessionMutation) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e, ok := r.items[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if r.expired(e, now) {
		r.evictLocked(id)
		return domain.Session{}, domain.ErrSessionNotFound
	}

	next, err := fn(e.session.Clone())
	if err != nil {
		return domain.Session{}, err
	}
	if next.ID != id {
		return domain.Session{}, fmt.Errorf("sessionRepo.Update: mutation changed session id %s to %s", id, next.ID)
	}
	r.items[id] = entry{session: next.Clone(), touched: now}
	return next.Clone(), nil
}

func (r *SessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrSessionNotFound
	}
	r.evictLocked(id)
	return nil
}

func (r *SessionRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked(r.now())
	return len(r.items), nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (r *SessionRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *SessionRepo) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range r.items {
		if r.expired(e, now) {
			r.evictLocked(id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is canceled.
func (r *SessionRepo) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("sessionRepo.RunJanitor: evicted %d expired sessions", n)
			}
		}
	}
}
