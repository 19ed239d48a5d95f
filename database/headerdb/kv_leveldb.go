// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"github.com/btcsuite/goleveldb/leveldb"
	ldberrors "github.com/btcsuite/goleveldb/leveldb/errors"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/pkg/errors"
)

var levelDBOptions = opt.Options{
	Compression:        opt.NoCompression,
	BlockCacheCapacity: 32 * opt.MiB,
	WriteBuffer:        16 * opt.MiB,
}

type levelDB struct {
	ldb *leveldb.DB
}

func openLevelDB(path string) (KV, error) {
	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(path, &levelDBOptions)

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldberrors.ErrCorrupted); corrupted {
		log.Warn().Str("path", path).Err(err).Msg("leveldb corruption detected")
		ldb, err = leveldb.RecoverFile(path, &levelDBOptions)
		if err != nil {
			return nil, errors.Wrapf(err, "can't recover leveldb at %s", path)
		}
		log.Warn().Str("path", path).Msg("leveldb recovered from corruption")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't open leveldb at %s", path)
	}
	return &levelDB{ldb: ldb}, nil
}

func (db *levelDB) Get(key []byte) ([]byte, error) {
	data, err := db.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	return data, err
}

func (db *levelDB) Write(batch *Batch) error {
	b := new(leveldb.Batch)
	for i, key := range batch.keys {
		b.Put(key, batch.values[i])
	}
	return db.ldb.Write(b, nil)
}

func (db *levelDB) ForEachPrefix(prefix []byte, fn func(key, value []byte) error) error {
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (db *levelDB) Close() error {
	return db.ldb.Close()
}
