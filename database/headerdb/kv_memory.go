// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"bytes"
	"sort"
	"sync"
)

type memoryKV struct {
	sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (d *memoryKV) Get(key []byte) ([]byte, error) {
	d.RLock()
	defer d.RUnlock()

	v, ok := d.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (d *memoryKV) Write(batch *Batch) error {
	d.Lock()
	defer d.Unlock()

	for i, key := range batch.keys {
		d.data[string(key)] = append([]byte(nil), batch.values[i]...)
	}
	return nil
}

func (d *memoryKV) ForEachPrefix(prefix []byte, fn func(key, value []byte) error) error {
	d.RLock()
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	values := make([][]byte, len(keys))
	sort.Strings(keys)
	for i, k := range keys {
		values[i] = d.data[k]
	}
	d.RUnlock()

	for i, k := range keys {
		if err := fn([]byte(k), values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *memoryKV) Close() error { return nil }
