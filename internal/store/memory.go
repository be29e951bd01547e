// internal/store/memory.go
//
// In-memory session store for active games. Sessions hold the live engine
// for one local game; they are ephemeral by design — nothing here survives a
// process restart (finished results go to the leaderboard tables instead).
//
// Characteristics:
//   - Sessions keyed by id in a map, concurrency-safe via RWMutex.
//   - Errors are returned for missing session ids on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/anahumita/trivia-go-arena-play/internal/game"
)

// ErrNotFound reports an unknown session id.
var ErrNotFound = errors.New("store: session not found")

// Session is one live game and its identifier.
type Session struct {
	ID     string
	Engine *game.Engine
}

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error
}

// memory is a map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
