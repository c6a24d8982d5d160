package fragment

import (
	"context"
	"sync"
	"time"
)

// Store keeps fetched payloads. Implementations must be safe for concurrent
// use.
type Store interface {
	// Get returns stored payload, ok is false when nothing (or only expired
	// payload) is stored under key.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

type memEntry struct {
	data   []byte
	stored time.Time
}

// MemoryStore keeps payloads for lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates store. Zero ttl means entries never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || expired(e.stored, s.ttl, s.now()) {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memEntry{data: data, stored: s.now()}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func expired(stored time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(stored) > ttl
}
