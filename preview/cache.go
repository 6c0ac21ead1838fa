// Package preview implements a local inspection server: an LRU cache of
// decoded page images, and a minimal HTTP server that exposes page
// thumbnails and panel overlays for debugging.
package preview

import (
	"fmt"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a size-bounded, least-recently-used cache of decoded page
// images keyed by page index, safe for concurrent use. It is the one
// long-lived resource the preview layer holds beyond a single detect call.
type Cache struct {
	mu    sync.Mutex
	inner *lru.Cache[int, image.Image]
}

// NewCache builds a Cache holding at most capacity decoded images.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("preview: cache capacity must be positive, got %d", capacity)
	}
	inner, err := lru.New[int, image.Image](capacity)
	if err != nil {
		return nil, fmt.Errorf("preview: building lru cache: %w", err)
	}
	return &Cache{inner: inner}, nil
}

// Get returns the cached image for pageIndex, if present.
func (c *Cache) Get(pageIndex int) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Get(pageIndex)
}

// Put stores img under pageIndex, evicting the least-recently-used entry
// if the cache is at capacity.
func (c *Cache) Put(pageIndex int, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(pageIndex, img)
}

// Remove evicts pageIndex, if present.
func (c *Cache) Remove(pageIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Remove(pageIndex)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}
