package session

import "sync"

// Store tracks active admin sessions. Tokens issued at login stay valid
// until revoked at logout or expiry of their signed claims.
// The in-memory implementation below covers single-instance
// deployments; multi-instance setups should back this interface with an
// external cache instead.
type Store interface {
	Create(id string)
	Valid(id string) bool
	Revoke(id string)
}

type MemoryStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

func (s *MemoryStore) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *MemoryStore) Valid(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *MemoryStore) Revoke(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}
