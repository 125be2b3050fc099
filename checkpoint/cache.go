package checkpoint

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// digestCache is a concurrent safe lru cache of finished digests.
type digestCache struct {
	l     sync.Mutex
	cache *lru.Cache
}

func newDigestCache(maxEntries int) *digestCache {
	return &digestCache{
		cache: lru.New(maxEntries),
	}
}

func (c *digestCache) get(key string) ([]byte, bool) {
	c.l.Lock()
	defer c.l.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *digestCache) add(key string, digest []byte) {
	c.l.Lock()
	c.cache.Add(key, digest)
	c.l.Unlock()
}

func (c *digestCache) remove(key string) {
	c.l.Lock()
	c.cache.Remove(key)
	c.l.Unlock()
}

func (c *digestCache) len() int {
	c.l.Lock()
	defer c.l.Unlock()
	return c.cache.Len()
}
