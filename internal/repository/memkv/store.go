// Package memkv is a bounded in-memory db.KV used when no Redis address is
// configured. Eviction is oldest-insertion-first, which is enough to keep a
// personal-site embedding cache from growing without bound.
package memkv

import (
	"context"
	"sync"
	"time"

	"github.com/redwards/digitaltwin/internal/db"
)

var _ db.KV = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
}

// Store is a thread-safe bounded key-value map.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // insertion order for eviction
	maxEntries int
	now        func() time.Time
}

// NewStore creates an in-memory store holding at most maxEntries keys.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Store{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, db.ErrKeyNotFound
	}
	return e.value, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value with an expiration. ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		if len(s.entries) >= s.maxEntries {
			s.evictOldest()
		}
		s.order = append(s.order, key)
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// evictOldest removes the earliest-inserted live key. Caller holds the lock.
func (s *Store) evictOldest() {
	for len(s.order) > 0 {
		key := s.order[0]
		s.order = s.order[1:]
		if _, ok := s.entries[key]; ok {
			delete(s.entries, key)
			return
		}
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately; the store has no connection phase.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
