// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Supported backend types.
const (
	TypeLevelDB = "leveldb"
	TypeBadger  = "badger"
	TypeMemory  = "memory"
)

// ErrDbUnknownType is returned by Open for an unregistered backend.
var ErrDbUnknownType = errors.New("unknown database type")

// KV is the ordered key/value store a header store is kept in. Get returns
// nil, nil for a missing key. ForEachPrefix visits keys in ascending byte
// order; the slices are only valid during the callback.
type KV interface {
	Get(key []byte) ([]byte, error)
	Write(batch *Batch) error
	ForEachPrefix(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch collects puts that are applied atomically.
type Batch struct {
	keys   [][]byte
	values [][]byte
}

// Put queues a write of value under key.
func (b *Batch) Put(key, value []byte) {
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
}

// Len returns the number of queued writes.
func (b *Batch) Len() int { return len(b.keys) }

// Driver opens a backend rooted at path.
type Driver struct {
	DbType string
	Open   func(path string) (KV, error)
}

var (
	driversMtx sync.RWMutex
	drivers    = make(map[string]*Driver)
)

// RegisterDriver adds a backend. Registering the same type twice is an
// error.
func RegisterDriver(driver Driver) error {
	driversMtx.Lock()
	defer driversMtx.Unlock()

	if _, exists := drivers[driver.DbType]; exists {
		return errors.Errorf("driver %q is already registered", driver.DbType)
	}
	drivers[driver.DbType] = &driver
	return nil
}

// SupportedDrivers returns the registered backend types, sorted.
func SupportedDrivers() []string {
	driversMtx.RLock()
	defer driversMtx.RUnlock()

	types := make([]string, 0, len(drivers))
	for t := range drivers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// OpenKV opens a backend of dbType at path.
func OpenKV(dbType, path string) (KV, error) {
	driversMtx.RLock()
	drv, exists := drivers[dbType]
	driversMtx.RUnlock()
	if !exists {
		return nil, errors.Wrapf(ErrDbUnknownType, "%q, supported: %v", dbType, SupportedDrivers())
	}
	return drv.Open(path)
}

func init() {
	for _, drv := range []Driver{
		{DbType: TypeLevelDB, Open: openLevelDB},
		{DbType: TypeBadger, Open: openBadger},
		{DbType: TypeMemory, Open: func(string) (KV, error) { return NewMemoryKV(), nil }},
	} {
		if err := RegisterDriver(drv); err != nil {
			panic(err)
		}
	}
}
