package scripttable

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"

	"github.com/vardthomas/neo-vm/protocol/vm"
)

// DefaultCacheSize is the number of scripts a Cache keeps when
// NewCache is given a size of zero or less.
const DefaultCacheSize = 256

// Cache keeps recently used scripts of another table in memory.
// Concurrent misses on the same hash share a single lookup.
// Missing hashes are not cached.
type Cache struct {
	next vm.ScriptTable

	mu  sync.Mutex
	lru *lru.Cache

	single singleflight.Group // for cache misses
}

// NewCache returns a Cache in front of next holding up to size
// scripts.
func NewCache(next vm.ScriptTable, size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{next: next, lru: lru.New(size)}
}

type lookup struct {
	script []byte
	ok     bool
}

func (c *Cache) GetScript(hash []byte) ([]byte, bool, error) {
	key := string(hash)
	if s, ok := c.get(key); ok {
		return s, true, nil
	}

	res, err := c.single.Do(key, func() (interface{}, error) {
		script, ok, err := c.next.GetScript(hash)
		if err != nil {
			return nil, err
		}
		if ok {
			c.add(key, script)
		}
		return lookup{script, ok}, nil
	})
	if err != nil {
		return nil, false, err
	}
	l := res.(lookup)
	return l.script, l.ok, nil
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *Cache) add(key string, script []byte) {
	c.mu.Lock()
	c.lru.Add(key, script)
	c.mu.Unlock()
}

// Len reports the number of cached scripts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
