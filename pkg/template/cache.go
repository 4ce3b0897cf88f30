package template

import "sync"

// Cache keeps parsed templates by path. An entry is only reused while the
// source read from disk is byte-for-byte identical to the one it was parsed
// from, so edits take effect on the next request. Contexts are never cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Template
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Template)}
}

func (c *Cache) get(path, src string) (*Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tmpl, ok := c.entries[path]
	if !ok || tmpl.src != src {
		return nil, false
	}
	return tmpl, true
}

func (c *Cache) put(path string, tmpl *Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = tmpl
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
