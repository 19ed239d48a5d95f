// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
)

type badgerDB struct {
	db *badger.DB
}

func openBadger(path string) (KV, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open badger at %s", path)
	}
	return &badgerDB{db: db}, nil
}

func (b *badgerDB) Get(key []byte) (res []byte, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		res, err = item.ValueCopy(nil)
		return err
	})
	return res, err
}

func (b *badgerDB) Write(batch *Batch) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for i, key := range batch.keys {
			if err := txn.Set(key, batch.values[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerDB) ForEachPrefix(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.Key(), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *badgerDB) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's own messages into the package logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Error().Str("db", TypeBadger).Msg(trimf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warn().Str("db", TypeBadger).Msg(trimf(format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	log.Debug().Str("db", TypeBadger).Msg(trimf(format, args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	log.Trace().Str("db", TypeBadger).Msg(trimf(format, args...))
}

func trimf(format string, args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
