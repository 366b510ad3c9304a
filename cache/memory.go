package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"MuzBot/model"

	"github.com/google/uuid"
)

type memoryEntry struct {
	track     *model.CatalogTrack
	query     string
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryStore is a bounded in-process TrackCache and QueryRegistry.
// Entries expire after ttl; when maxEntries is exceeded the oldest entries
// are evicted, so the store never grows without bound.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates a store with the given TTL and size bound.
// maxEntries <= 0 means 10000; ttl <= 0 means 24h.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores or overwrites the descriptor for token.
func (s *MemoryStore) Put(_ context.Context, token string, track *model.CatalogTrack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(token, &memoryEntry{track: track})
	return nil
}

// Get resolves a token.
func (s *MemoryStore) Get(_ context.Context, token string) (*model.CatalogTrack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.get(token)
	if entry == nil || entry.track == nil {
		return nil, ErrCacheMiss
	}
	return entry.track, nil
}

// Register stores a query under a fresh short key.
func (s *MemoryStore) Register(_ context.Context, query string) (string, error) {
	key := newQueryKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put("q:"+key, &memoryEntry{query: query})
	return key, nil
}

// Lookup resolves a query key.
func (s *MemoryStore) Lookup(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.get("q:" + key)
	if entry == nil || entry.query == "" {
		return "", ErrCacheMiss
	}
	return entry.query, nil
}

// Len reports the number of live entries. Used by tests and stats.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// put must be called with the lock held.
func (s *MemoryStore) put(key string, entry *memoryEntry) {
	now := s.now()
	entry.storedAt = now
	entry.expiresAt = now.Add(s.ttl)
	s.entries[key] = entry
	if len(s.entries) > s.maxEntries {
		s.evict(now)
	}
}

// get must be called with the lock held.
func (s *MemoryStore) get(key string) *memoryEntry {
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return entry
}

// evict drops expired entries, then the oldest live ones until the store is
// back under its bound. Called with the lock held.
func (s *MemoryStore) evict(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	for len(s.entries) > s.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range s.entries {
			if oldestKey == "" || entry.storedAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.storedAt
			}
		}
		delete(s.entries, oldestKey)
	}
}

// newQueryKey returns a short random key safe for callback payloads.
func newQueryKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
