// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"sync"

	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// DefaultCheckedCacheSize is the capacity used when none is configured.
const DefaultCheckedCacheSize = 10000

// CheckedCache remembers the keys of blocks and headers that already
// passed validation. It is advisory: a miss only means the check runs again.
// A nil *CheckedCache is a valid, always empty cache.
type CheckedCache struct {
	mtx      sync.RWMutex
	cache    map[chainhash.Hash]struct{}
	capacity int
}

// NewCheckedCache creates a cache holding up to capacity hashes.
func NewCheckedCache(capacity int) *CheckedCache {
	if capacity <= 0 {
		capacity = DefaultCheckedCacheSize
	}
	return &CheckedCache{
		cache:    make(map[chainhash.Hash]struct{}, capacity+1),
		capacity: capacity,
	}
}

// MarkChecked records hash as validated.
func (c *CheckedCache) MarkChecked(hash chainhash.Hash) {
	if c == nil {
		return
	}

	c.mtx.Lock()
	c.cache[hash] = struct{}{}
	if len(c.cache) > c.capacity {
		c.evictRandom(hash)
	}
	c.mtx.Unlock()
}

// IsChecked reports whether hash was validated before.
func (c *CheckedCache) IsChecked(hash chainhash.Hash) bool {
	if c == nil {
		return false
	}

	c.mtx.RLock()
	_, ok := c.cache[hash]
	c.mtx.RUnlock()
	return ok
}

// Remove forgets hash. Does nothing if the hash is unknown.
func (c *CheckedCache) Remove(hash chainhash.Hash) {
	if c == nil {
		return
	}

	c.mtx.Lock()
	delete(c.cache, hash)
	c.mtx.Unlock()
}

// Len returns the number of cached hashes.
func (c *CheckedCache) Len() int {
	if c == nil {
		return 0
	}

	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.cache)
}

// Clear drops every entry.
func (c *CheckedCache) Clear() {
	if c == nil {
		return
	}

	c.mtx.Lock()
	for key := range c.cache {
		delete(c.cache, key)
	}
	c.mtx.Unlock()
}

// evictRandom drops one entry other than keep. Callers hold the lock.
func (c *CheckedCache) evictRandom(keep chainhash.Hash) {
	for key := range c.cache {
		if key != keep {
			delete(c.cache, key)
			return
		}
	}
}
