package pipeline

import (
	"sync"

	"chromalab/internal/domain"
)

// Cache memoizes summaries by input-file content fingerprint. At most one
// computation runs per fingerprint at a time: duplicate callers block until
// the in-flight run finishes and then share its result. Failed runs are not
// cached, so a later call may retry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	done    chan struct{}
	summary *domain.Summary
	err     error
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Do returns the cached summary for fingerprint, or runs fn to compute it.
// Concurrent calls with the same fingerprint run fn exactly once.
func (c *Cache) Do(fingerprint string, fn func() (*domain.Summary, error)) (*domain.Summary, error) {
	c.mu.Lock()
	if e, ok := c.entries[fingerprint]; ok {
		c.mu.Unlock()
		<-e.done
		return e.summary, e.err
	}
	e := &cacheEntry{done: make(chan struct{})}
	c.entries[fingerprint] = e
	c.mu.Unlock()

	e.summary, e.err = fn()
	close(e.done)

	if e.err != nil {
		c.mu.Lock()
		delete(c.entries, fingerprint)
		c.mu.Unlock()
	}
	return e.summary, e.err
}

// Len reports the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
