package preload

import (
	"sync"
)

// Image is a cached cover image
type Image struct {
	URL         string
	ContentType string
	Data        []byte
}

// Cache holds cover images keyed by game id
type Cache struct {
	mu     sync.RWMutex
	images map[string]Image
}

// NewCache creates an empty Cache
func NewCache() *Cache {
	return &Cache{images: map[string]Image{}}
}

// Get returns the cached image for a game
func (c *Cache) Get(gameID string) (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[gameID]
	return img, ok
}

// Has reports whether the game's image is cached for url
func (c *Cache) Has(gameID, url string) bool {
	img, ok := c.Get(gameID)
	return ok && img.URL == url
}

func (c *Cache) put(gameID string, img Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[gameID] = img
}

// Retain drops every image whose game id is not in ids
func (c *Cache) Retain(ids map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.images {
		if _, ok := ids[id]; !ok {
			delete(c.images, id)
		}
	}
}

// Len returns the number of cached images
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
