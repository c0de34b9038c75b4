package cache

import (
	"sync"
	"time"
)

// Store is the TTL string store a Cache sits on. Get reports ok=false
// for an absent or expired key; err is reserved for backend failures.
type Store interface {
	Put(key, value string, ttl time.Duration) error
	Get(key string) (value string, ok bool, err error)
	Remove(key string) error
}

type memEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

// MemStore is an in-process Store, used when no external cache backend
// is configured. Entries are dropped lazily on read.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemStore) Put(key, value string, ttl time.Duration) error {
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
