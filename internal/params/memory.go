package params

import "sync"

// MemoryStore is an in-memory parameter store. It backs tests and the CLI
// when no SQLite database is supplied.
type MemoryStore struct {
	mu     sync.RWMutex
	global map[string]any
	user   map[string]map[string]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		global: make(map[string]any),
		user:   make(map[string]map[string]any),
	}
}

// NewMemoryStoreWithDefaults creates a store pre-seeded with the built-in
// defaults.
func NewMemoryStoreWithDefaults() *MemoryStore {
	s := NewMemoryStore()
	for k, v := range Defaults() {
		s.global[k] = v
	}
	return s
}

// SetRaw stores an arbitrary value, wrapper shapes included. Tests use it
// to exercise legacy value handling.
func (s *MemoryStore) SetRaw(path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global[path] = value
}

func (s *MemoryStore) Lookup(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.global[path]
	return v, ok
}

func (s *MemoryStore) LookupUser(userID, path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if overrides, ok := s.user[userID]; ok {
		v, ok := overrides[path]
		return v, ok
	}
	return nil, false
}

func (s *MemoryStore) Set(path string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global[path] = value
	return nil
}

func (s *MemoryStore) SetUser(userID, path string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user[userID] == nil {
		s.user[userID] = make(map[string]any)
	}
	s.user[userID][path] = value
	return nil
}

func (s *MemoryStore) All() (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.global))
	for k, v := range s.global {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out, nil
}
