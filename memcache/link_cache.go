// Package memcache keeps recently resolved links in process memory. It is
// used when no Redis server is configured.
package memcache

import (
	"sync"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/utils"
	"github.com/jonboulle/clockwork"
)

type cachedLink struct {
	link    api.LinkDTO
	expires time.Time
}

type LinkCache struct {
	mu      sync.Mutex
	entries *utils.LinkedHashMap
	clock   clockwork.Clock
}

// NewLinkCache creates a cache that holds at most size links.
func NewLinkCache(size int) *LinkCache {
	return NewLinkCacheWithClock(size, clockwork.NewRealClock())
}

func NewLinkCacheWithClock(size int, clock clockwork.Clock) *LinkCache {
	return &LinkCache{
		entries: utils.NewLinkedHashMap(size),
		clock:   clock,
	}
}

func (c *LinkCache) Get(code string) (*api.LinkDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries.Get(code)
	if !ok {
		return nil, nil
	}

	entry := value.(*cachedLink)
	if !entry.expires.IsZero() && !c.clock.Now().Before(entry.expires) {
		c.entries.Remove(code)
		return nil, nil
	}

	link := entry.link
	return &link, nil
}

// Set stores a copy of link. A ttl <= 0 keeps it until evicted.
func (c *LinkCache) Set(link *api.LinkDTO, ttl time.Duration) error {
	if link == nil || link.Code == "" {
		return api.ErrInvalidArg
	}

	entry := &cachedLink{link: *link}
	if ttl > 0 {
		entry.expires = c.clock.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Put(link.Code, entry)

	return nil
}

func (c *LinkCache) Invalidate(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(code)
	return nil
}

func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
