package cache

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/placeradar/backend/internal/domain/providers"
)

const defaultMemoryCacheSize = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements CacheProvider with an in-process LRU. It is the
// degraded-mode stand-in used when Redis is unavailable, so the service keeps
// its response cache instead of running uncached.
type MemoryAdapter struct {
	entries *lru.Cache[string, memoryEntry]
	mu      sync.Mutex
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter(size int) (providers.CacheProvider, error) {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryAdapter{entries: entries}, nil
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries.Get(key)
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		a.entries.Remove(key)
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry := memoryEntry{value: value}
	if expirationSeconds > 0 {
		entry.expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.entries.Add(key, entry)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries.Remove(key)
	return nil
}

// DeletePattern removes all keys matching a glob pattern
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, key := range a.entries.Keys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if matched {
			a.entries.Remove(key)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := a.Get(ctx, key); err != nil {
		return false, nil
	}
	return true, nil
}
