// internal/store/memory.go
//
// In-memory stores.
// Used for live solver sessions, and as a cache/result store when no
// database is configured (development, tests, one-shot CLI runs).
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Each Session carries its own mutex: a solver.Game is single-owner,
//     so handlers lock the session for the duration of a request.
//   - Sessions record their last use; Sweep drops idle ones.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// ErrSessionNotFound is returned by Sessions.Get for unknown IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is a live game plus its bookkeeping.
type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	game     *solver.Game
	lastUsed atomic.Int64 // unix nanos
}

// NewSession wraps g.
func NewSession(id string, g *solver.Game) *Session {
	s := &Session{ID: id, Created: time.Now().UTC(), game: g}
	s.lastUsed.Store(s.Created.UnixNano())
	return s
}

// With runs fn with exclusive access to the session's game.
func (s *Session) With(fn func(g *solver.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed.Store(time.Now().UnixNano())
	return fn(s.game)
}

// LastUsed reports when the session was created or last accessed via With.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load()).UTC()
}

// Sessions defines the persistence interface for live sessions.
type Sessions interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep drops every session last used before cutoff and reports how
	// many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memorySessions struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemorySessions constructs an in-memory session store.
func NewMemorySessions() Sessions {
	return &memorySessions{sessions: make(map[string]*Session)}
}

func (m *memorySessions) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// MemoryCache is a cache.Store holding tables in process memory.
type MemoryCache struct {
	mu     sync.RWMutex
	tables map[string]*cache.Table
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tables: make(map[string]*cache.Table)}
}

// Load implements cache.Store.
func (m *MemoryCache) Load(_ context.Context, key string) (*cache.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tables[key]; ok {
		return t, nil
	}
	return nil, cache.ErrNotFound
}

// Save implements cache.Store. Tables are immutable, so no copy is made.
func (m *MemoryCache) Save(_ context.Context, key string, t *cache.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key] = t
	return nil
}

// MemoryOpeners keeps opening guesses in memory.
type MemoryOpeners struct {
	mu      sync.RWMutex
	openers map[string]map[string]string // key -> strategy -> guess
}

// NewMemoryOpeners constructs an empty MemoryOpeners.
func NewMemoryOpeners() *MemoryOpeners {
	return &MemoryOpeners{openers: make(map[string]map[string]string)}
}

// LoadOpeners implements Openers.
func (m *MemoryOpeners) LoadOpeners(_ context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.openers[key]))
	for s, g := range m.openers[key] {
		out[s] = g
	}
	return out, nil
}

// SaveOpener implements Openers.
func (m *MemoryOpeners) SaveOpener(_ context.Context, key, strategy, guess string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openers[key] == nil {
		m.openers[key] = make(map[string]string)
	}
	m.openers[key][strategy] = guess
	return nil
}

// MemoryResults keeps finished games in memory.
type MemoryResults struct {
	mu      sync.Mutex
	ids     map[string]bool
	results []Result
}

// NewMemoryResults constructs an empty MemoryResults.
func NewMemoryResults() *MemoryResults { return &MemoryResults{ids: map[string]bool{}} }

// Insert implements Results. A duplicate ID is ignored.
func (m *MemoryResults) Insert(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids[r.ID] {
		return nil
	}
	m.ids[r.ID] = true
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.results = append(m.results, r)
	return nil
}

// Summary implements Results.
func (m *MemoryResults) Summary(_ context.Context, strategy string) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := newSummary(strategy)
	for _, r := range m.results {
		if strategy == "" || r.Strategy == strategy {
			sum.add(r.Guesses, r.Solved, 1)
		}
	}
	return sum.finish(), nil
}
