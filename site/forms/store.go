package forms

import (
	"context"
	"sync"
	"time"
)

type sessionKey struct {
	visitor string
	form    string
}

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps one Session per visitor and form, created on first use.
type Store struct {
	mu       sync.Mutex
	registry *Registry
	clock    Clock
	opts     []SessionOption
	limit    int
	sessions map[sessionKey]*storeEntry
}

// NewStore creates a Store over the forms in reg. clock drives idle
// tracking and every session's reset timer; opts are applied to every
// Session the store creates.
func NewStore(reg *Registry, clock Clock, opts ...SessionOption) *Store {
	if clock == nil {
		clock = SystemClock
	}
	return &Store{
		registry: reg,
		clock:    clock,
		opts:     append([]SessionOption{WithClock(clock)}, opts...),
		sessions: make(map[sessionKey]*storeEntry),
	}
}

// SetLimit caps the number of live sessions. When the store is full the
// least recently used session is dropped to make room; n <= 0 removes the
// cap.
func (st *Store) SetLimit(n int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.limit = n
}

// Registry returns the form registry backing the store.
func (st *Store) Registry() *Registry { return st.registry }

// Session returns the visitor's session for the named form.
func (st *Store) Session(visitor, form string) (*Session, error) {
	f, err := st.registry.Get(form)
	if err != nil {
		return nil, err
	}

	key := sessionKey{visitor: visitor, form: form}
	now := st.clock.Now()

	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[key]
	if !ok {
		if st.limit > 0 && len(st.sessions) >= st.limit {
			st.evictOldest()
		}
		e = &storeEntry{session: NewSession(f, st.opts...)}
		st.sessions[key] = e
	}
	e.lastSeen = now
	return e.session, nil
}

// evictOldest must hold mu.
func (st *Store) evictOldest() {
	var (
		oldest sessionKey
		seen   time.Time
		found  bool
	)
	for k, e := range st.sessions {
		if !found || e.lastSeen.Before(seen) {
			oldest, seen, found = k, e.lastSeen, true
		}
	}
	if found {
		delete(st.sessions, oldest)
	}
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions not used for longer than idle and returns how many
// were removed.
func (st *Store) Sweep(idle time.Duration) int {
	cutoff := st.clock.Now().Add(-idle)

	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for k, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(st.sessions, k)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(idle)
		}
	}
}
