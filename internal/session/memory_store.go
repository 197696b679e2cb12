package session

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
)

type memoryEntry struct {
	state     domain.SessionState
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.SessionState, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}

	state := entry.state
	state.Inputs = state.Inputs.Clone()
	return &state, nil
}

func (s *MemoryStore) Save(ctx context.Context, state *domain.SessionState) error {
	stored := *state
	stored.Inputs = state.Inputs.Clone()

	s.mu.Lock()
	s.entries[state.ID] = memoryEntry{state: stored, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	return len(s.entries), nil
}

var _ Store = (*MemoryStore)(nil)
