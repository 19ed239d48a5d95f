// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

func TestCheckedCache(t *testing.T) {
	cache := NewCheckedCache(2)
	a, b, c := chainhash.Hash{0x0a}, chainhash.Hash{0x0b}, chainhash.Hash{0x0c}

	assert.False(t, cache.IsChecked(a))
	cache.MarkChecked(a)
	cache.MarkChecked(b)
	assert.True(t, cache.IsChecked(a))
	assert.Equal(t, 2, cache.Len())

	cache.MarkChecked(c)
	assert.Equal(t, 2, cache.Len())
	assert.True(t, cache.IsChecked(c), "the newest entry is never evicted")

	cache.Remove(c)
	assert.False(t, cache.IsChecked(c))

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCheckedCacheNil(t *testing.T) {
	var cache *CheckedCache
	cache.MarkChecked(chainhash.Hash{0x01})
	cache.Remove(chainhash.Hash{0x01})
	cache.Clear()
	assert.False(t, cache.IsChecked(chainhash.Hash{0x01}))
	assert.Equal(t, 0, cache.Len())
}

func TestCheckedCacheConcurrent(t *testing.T) {
	cache := NewCheckedCache(0)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h := chainhash.Hash{byte(w), byte(i)}
				cache.MarkChecked(h)
				assert.True(t, cache.IsChecked(h))
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 800, cache.Len())
}
