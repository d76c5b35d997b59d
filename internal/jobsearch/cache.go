package jobsearch

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Cache is a TTL-bounded listing cache. Entries expire on the configured
// eviction window; nothing grows without bound across a long-running process.
type Cache struct {
	store *bigcache.BigCache
}

func NewCache(ttl time.Duration) (*Cache, error) {
	store, err := bigcache.NewBigCache(bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

func (c *Cache) Get(key string) ([]Result, bool) {
	raw, err := c.store.Get(key)
	if err != nil {
		return nil, false
	}
	var results []Result
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *Cache) Set(key string, results []Result) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(results); err != nil {
		return err
	}
	return c.store.Set(key, buf.Bytes())
}
