// Package doccache memoizes raw document text by path for the process lifetime.
package doccache

import "sync"

// Cache is an append-only path → raw text table. There is no eviction,
// no size bound and no TTL.
type Cache struct {
	mu     sync.RWMutex
	docs   map[string]string
	hits   int64
	misses int64
}

func New() *Cache {
	return &Cache{docs: make(map[string]string)}
}

// Get returns the cached text for path.
func (c *Cache) Get(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.docs[path]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return text, ok
}

// Put stores text for path, replacing any previous value.
func (c *Cache) Put(path, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[path] = text
}

// Peek is Get without counting a lookup.
func (c *Cache) Peek(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.docs[path]
	return text, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.docs), Hits: c.hits, Misses: c.misses}
}
