package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/weatherwise/internal/domain/session"
)

type stateRecord struct {
	payload   session.State
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the session store for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]stateRecord
	clock  clockwork.Clock
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{states: make(map[string]stateRecord), clock: clock}
}

// Get implements session.Store.
func (s *MemoryStore) Get(_ context.Context, id string) (session.State, bool, error) {
	if id == "" {
		return session.State{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.states[id]
	s.mu.RUnlock()
	if !ok {
		return session.State{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.states, id)
		s.mu.Unlock()
		return session.State{}, false, nil
	}
	return record.payload, true, nil
}

// Save stores the state with optional TTL, refreshing expiry on every write.
func (s *MemoryStore) Save(_ context.Context, state session.State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.clock.Now().Add(ttl)
	}
	s.states[state.ID] = stateRecord{payload: state, expiresAt: exp}
	s.purgeLocked()
	return nil
}

// Delete removes the session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

func (s *MemoryStore) purgeLocked() {
	for id, record := range s.states {
		if s.hasExpired(record.expiresAt) {
			delete(s.states, id)
		}
	}
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.clock.Now())
}

var _ session.Store = (*MemoryStore)(nil)
