package store

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// prefixCache memoizes prefix lookups. Every write bumps a generation
// counter that is part of the cache key, so stale entries are never
// served; they simply age out of the LRU.
type prefixCache struct {
	lru *lru.Cache[string, []WordRow]
	gen atomic.Uint64
}

// newPrefixCache returns nil when size <= 0, disabling caching.
func newPrefixCache(size int) *prefixCache {
	if size <= 0 {
		return nil
	}
	c, _ := lru.New[string, []WordRow](size)
	return &prefixCache{lru: c}
}

func (c *prefixCache) key(gen uint64, lprefix string, limit int) string {
	return fmt.Sprintf("%d|%d|%s", gen, limit, lprefix)
}

// generation returns the counter to pass to putAt. Callers must read it
// before querying the database, so a write landing mid-lookup moves the
// counter and the stale rows never become reachable.
func (c *prefixCache) generation() uint64 {
	if c == nil {
		return 0
	}
	return c.gen.Load()
}

func (c *prefixCache) get(lprefix string, limit int) ([]WordRow, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(c.key(c.gen.Load(), lprefix, limit))
}

// putAt stores rows under the generation they were read at. If a write
// has bumped the counter since, the entry is keyed to a generation no
// get will ever compute again, so it is dead on arrival; skip the
// insert to keep it out of the LRU.
func (c *prefixCache) putAt(gen uint64, lprefix string, limit int, rows []WordRow) {
	if c == nil || c.gen.Load() != gen {
		return
	}
	c.lru.Add(c.key(gen, lprefix, limit), rows)
}

// invalidate marks all cached entries stale. Called on every write.
func (c *prefixCache) invalidate() {
	if c == nil {
		return
	}
	c.gen.Add(1)
}
