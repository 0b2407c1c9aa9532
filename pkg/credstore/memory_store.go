package credstore

import "sync"

// MemoryStore implements Store using an in-memory map
type MemoryStore struct {
	mu      sync.RWMutex
	records Records
	exists  bool
}

// NewMemoryStore creates a MemoryStore. A non-nil initial set counts as an
// existing store.
func NewMemoryStore(initial Records) *MemoryStore {
	return &MemoryStore{
		records: initial.Clone(),
		exists:  initial != nil,
	}
}

// Load implements Store
func (s *MemoryStore) Load() (Records, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Clone(), nil
}

// Save implements Store
func (s *MemoryStore) Save(records Records) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records.Clone()
	s.exists = true
	return nil
}

// Clear implements Store
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return ErrNoStore
	}
	s.records = Records{}
	s.exists = false
	return nil
}
