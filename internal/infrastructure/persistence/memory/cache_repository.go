// Package memory provides an in-memory cache repository for tests and
// single-process development runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/snacktrack/v2/internal/ports/outbound"
)

type entry struct {
	value     []byte
	counter   int64
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// CacheRepository implements the cache repository interface in memory
type CacheRepository struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{entries: make(map[string]*entry)}
}

// Get retrieves a value; missing or expired keys return nil, nil.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, nil
	}
	return e.value, nil
}

// Set stores a value with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	r.entries[key] = e
	return nil
}

// Delete removes a value
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

// Increment atomically increments a counter, starting a fresh window
// when the key is absent or its previous window expired.
func (r *CacheRepository) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	e, ok := r.entries[key]
	if !ok || e.expired(now) {
		e = &entry{}
		if ttl > 0 {
			e.expiresAt = now.Add(ttl)
		}
		r.entries[key] = e
	}
	e.counter++
	return e.counter, nil
}
