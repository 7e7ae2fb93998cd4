// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions live only in process memory and are lost on restart.
//
// Characteristics:
//   - Stores game.Session values keyed by session ID.
//   - Each entry carries its own mutex; Update holds it for the whole
//     callback so moves on one session are applied one at a time while
//     different sessions proceed in parallel.
//   - The map itself is guarded by an RWMutex.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/kkeutmal/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create stores a new session; an existing ID is overwritten.
	Create(ctx context.Context, s game.Session) error

	// Get returns a snapshot of the session.
	Get(ctx context.Context, id string) (game.Session, error)

	// Update runs fn with the current session while holding that session's
	// lock and stores the session fn returns. If fn returns an error nothing
	// is stored and the error is passed through.
	Update(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error)

	// Prune removes sessions whose last update is older than idle and
	// reports how many were removed.
	Prune(ctx context.Context, idle time.Duration) int
}

type entry struct {
	mu      sync.Mutex // serialises Update on this session
	session game.Session
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Create(ctx context.Context, s game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s, touched: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (game.Session, error) {
	e, ok := m.lookup(id)
	if !ok {
		return game.Session{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error) {
	e, ok := m.lookup(id)
	if !ok {
		return game.Session{}, ErrNotFound
	}
	return m.apply(ctx, id, e, fn)
}

// apply runs fn on e under its lock. e may have been pruned between lookup
// and lock, in which case nothing is stored.
func (m *memory) apply(ctx context.Context, id string, e *entry, fn func(game.Session) (game.Session, error)) (game.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := m.lookup(id); !ok || cur != e {
		return game.Session{}, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return e.session, err
	}
	next, err := fn(e.session)
	if err != nil {
		return e.session, err
	}
	e.session = next
	e.touched = m.now()
	return next, nil
}

func (m *memory) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		// skip sessions with a move in flight
		if !e.mu.TryLock() {
			continue
		}
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

func (m *memory) lookup(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e, ok
}
