package services

import (
	"sync"
)

// feedTracker issues generation tokens per feed key so that a slow aggregation
// for stale inputs never overwrites the snapshot of a newer one. Each call to
// begin supersedes all earlier generations for the same key.
type feedTracker struct {
	mu          sync.Mutex
	generations map[string]uint64
}

func newFeedTracker() *feedTracker {
	return &feedTracker{
		generations: make(map[string]uint64),
	}
}

// begin registers a new aggregation for key and returns its generation token
func (t *feedTracker) begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generations[key]++
	return t.generations[key]
}

// isCurrent reports whether gen is still the latest generation for key
func (t *feedTracker) isCurrent(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.generations[key] == gen
}
