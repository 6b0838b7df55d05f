package repo

import (
	"sync"

	"rendezvous/internal/domain"
)

// MemorySessionStore keeps the ordering session for the life of the process,
// which for a kiosk is the browsing session.
type MemorySessionStore struct {
	mu sync.RWMutex
	s  *domain.OrderSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (r *MemorySessionStore) Put(s *domain.OrderSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.s = &cp
	return nil
}

func (r *MemorySessionStore) Get() (*domain.OrderSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.s == nil {
		return nil, false
	}
	cp := *r.s
	return &cp, true
}

func (r *MemorySessionStore) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = nil
	return nil
}
