package cache

import (
	"sync"
	"time"
)

// Store is the lookup cache contract the identity resolver depends on.
// Implementations own their expiry policy.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Stop()
}

type entry struct {
	value     any
	createdAt time.Time
}

// TTLStore is an in-memory Store with per-entry TTL and a background
// janitor. It replaces the module-level lookup cache the engine used to
// rely on; callers inject it explicitly.
type TTLStore struct {
	mu     sync.RWMutex
	store  map[string]entry
	ttl    time.Duration
	stopCh chan struct{}
}

func NewTTLStore(ttl time.Duration) *TTLStore {
	s := &TTLStore{
		store:  make(map[string]entry),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	go s.cleanup()

	return s
}

func (s *TTLStore) Get(key string) (any, bool) {
	s.mu.RLock()
	e, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(e.createdAt) > s.ttl {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *TTLStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = entry{value: value, createdAt: time.Now()}
}

func (s *TTLStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.store, key)
}

func (s *TTLStore) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, e := range s.store {
				if time.Since(e.createdAt) > s.ttl {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *TTLStore) Stop() {
	close(s.stopCh)
}
