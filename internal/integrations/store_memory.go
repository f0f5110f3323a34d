package integrations

import "sync"

// MemoryStore keeps integrations in memory. It is the default store and the
// one used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]SinkIntegration
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]SinkIntegration)}
}

func (s *MemoryStore) Put(integration SinkIntegration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[integration.ID]; !exists {
		s.order = append(s.order, integration.ID)
	}
	s.items[integration.ID] = integration
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) LoadAll() ([]SinkIntegration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SinkIntegration, 0, len(s.order))
	for _, id := range s.order {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
