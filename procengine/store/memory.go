package store

import (
	"context"
	"sync"

	"github.com/smoes/workflow-engine-go/procengine"
)

// MemStore is an in-memory Store, for tests and short-lived processes.
// Grounded on the teacher's MemStore (graph/store/memory.go), trimmed to
// the event-log-only Store contract.
type MemStore struct {
	mu   sync.RWMutex
	logs map[string][]procengine.Event
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{logs: make(map[string][]procengine.Event)}
}

// SaveEvents stores a copy of events under instanceID, replacing any prior log.
func (s *MemStore) SaveEvents(_ context.Context, instanceID string, events []procengine.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]procengine.Event, len(events))
	copy(cp, events)
	s.logs[instanceID] = cp
	return nil
}

// LoadEvents returns a copy of the stored log for instanceID.
func (s *MemStore) LoadEvents(_ context.Context, instanceID string) ([]procengine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events, ok := s.logs[instanceID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]procengine.Event, len(events))
	copy(cp, events)
	return cp, nil
}

// ListInstances returns every stored instance id, in no particular order.
func (s *MemStore) ListInstances(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	return ids, nil
}
