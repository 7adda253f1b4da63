package client

import "sync"

// Cache collection tags. Invalidation is targeted: a mutation invalidates
// the touched entity key plus the collections whose derived views can
// change, instead of flushing everything.
const (
	TagMenuItems = "menuitems"
	TagTables    = "tables"
	TagOrders    = "orders"
)

// Cache stores raw response bodies keyed by request path, with collection
// tags for grouped invalidation. Sized for small datasets; entries live
// until invalidated.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	byTag   map[string]map[string]struct{}
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		byTag:   make(map[string]map[string]struct{}),
	}
}

// Get returns the cached body for a key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[key]
	return body, ok
}

// Set stores a body under a key with its collection tags.
func (c *Cache) Set(key string, body []byte, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = body
	for _, tag := range tags {
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[string]struct{})
		}
		c.byTag[tag][key] = struct{}{}
	}
}

// InvalidateKey drops one entry.
func (c *Cache) InvalidateKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(key)
}

// InvalidateTag drops every entry carrying the tag.
func (c *Cache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.byTag[tag] {
		c.dropLocked(key)
	}
	delete(c.byTag, tag)
}

func (c *Cache) dropLocked(key string) {
	delete(c.entries, key)
	for _, keys := range c.byTag {
		delete(keys, key)
	}
}
