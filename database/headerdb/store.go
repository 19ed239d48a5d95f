// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package headerdb

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// ErrNotFound is returned for headers the store does not hold.
var ErrNotFound = errors.New("header not found")

// locatorLinearSteps is how many of the newest headers a locator lists one
// by one before the step starts doubling.
const locatorLinearSteps = 10

var (
	headerPrefix = []byte{'h'}
	heightPrefix = []byte{'n'}
	bestKey      = []byte("best")
	countKey     = []byte("count")
)

func headerKey(hash *chainhash.Hash) []byte {
	return append(append(make([]byte, 0, 1+chainhash.HashSize), headerPrefix...), hash[:]...)
}

func heightKey(height int32) []byte {
	key := make([]byte, 1+4)
	copy(key, heightPrefix)
	binary.BigEndian.PutUint32(key[1:], uint32(height))
	return key
}

// Store keeps the headers of one chain, indexed by hash and by height. The
// height index holds a single header per height; the tip is the highest
// height stored.
type Store struct {
	mtx sync.Mutex
	kv  KV
}

// New creates a store over kv.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Open opens a store on a registered backend.
func Open(dbType, path string) (*Store, error) {
	kv, err := OpenKV(dbType, path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("db", dbType).Str("path", path).Msg("header store opened")
	return New(kv), nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// PutHeader stores header at height, replacing whatever header the height
// index held there.
func (s *Store) PutHeader(header *wire.BlockHeader, height int32) error {
	if height < 0 {
		return errors.Errorf("negative height %d", height)
	}
	raw, err := header.Bytes()
	if err != nil {
		return errors.Wrap(err, "can't serialize header")
	}
	hash := header.BlockHash()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	known, err := s.kv.Get(headerKey(&hash))
	if err != nil {
		return err
	}
	count, err := s.count()
	if err != nil {
		return err
	}
	_, bestHeight, hasBest, err := s.bestTip()
	if err != nil {
		return err
	}

	value := make([]byte, 4, 4+len(raw))
	binary.BigEndian.PutUint32(value, uint32(height))
	value = append(value, raw...)

	batch := new(Batch)
	batch.Put(headerKey(&hash), value)
	batch.Put(heightKey(height), hash[:])
	if known == nil {
		count++
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], count)
		batch.Put(countKey, buf[:])
	}
	if !hasBest || height >= bestHeight {
		tip := make([]byte, 0, chainhash.HashSize+4)
		tip = append(tip, hash[:]...)
		batch.Put(bestKey, append(tip, value[:4]...))
	}
	return s.kv.Write(batch)
}

// HeaderByHash returns a stored header and its height.
func (s *Store) HeaderByHash(hash chainhash.Hash) (*wire.BlockHeader, int32, error) {
	value, err := s.kv.Get(headerKey(&hash))
	if err != nil {
		return nil, 0, err
	}
	if value == nil {
		return nil, 0, errors.Wrapf(ErrNotFound, "hash %s", hash)
	}
	return decodeEntry(value)
}

// HashAtHeight returns the hash indexed at height.
func (s *Store) HashAtHeight(height int32) (chainhash.Hash, error) {
	var hash chainhash.Hash
	value, err := s.kv.Get(heightKey(height))
	if err != nil {
		return hash, err
	}
	if value == nil {
		return hash, errors.Wrapf(ErrNotFound, "height %d", height)
	}
	copy(hash[:], value)
	return hash, nil
}

// HeaderByHeight returns the header indexed at height.
func (s *Store) HeaderByHeight(height int32) (*wire.BlockHeader, error) {
	hash, err := s.HashAtHeight(height)
	if err != nil {
		return nil, err
	}
	header, _, err := s.HeaderByHash(hash)
	return header, err
}

// BestTip returns the hash and height of the highest stored header.
func (s *Store) BestTip() (chainhash.Hash, int32, error) {
	hash, height, ok, err := s.bestTip()
	if err != nil {
		return hash, 0, err
	}
	if !ok {
		return hash, 0, errors.Wrap(ErrNotFound, "empty store")
	}
	return hash, height, nil
}

// Count returns the number of distinct headers stored.
func (s *Store) Count() (uint64, error) {
	return s.count()
}

// BlockLocator lists hashes walking back from the header at height: the
// newest ten one by one, then with a doubling step, always ending with the
// header at height zero.
func (s *Store) BlockLocator(height int32) (*wire.BlockLocator, error) {
	if height < 0 {
		return wire.NewBlockLocator(nil), nil
	}

	hashes := make([]chainhash.Hash, 0, locatorLinearSteps+32)
	step := int32(1)
	for {
		hash, err := s.HashAtHeight(height)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
		if height == 0 || len(hashes) == wire.MaxBlockLocatorsPerMsg-1 {
			break
		}

		height -= step
		if height < 0 {
			height = 0
		}
		if len(hashes) > locatorLinearSteps {
			step *= 2
		}
	}

	if height != 0 {
		genesis, err := s.HashAtHeight(0)
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, genesis)
	}
	return wire.NewBlockLocator(hashes), nil
}

// TipLocator is BlockLocator from the best tip. An empty store yields an
// empty locator.
func (s *Store) TipLocator() (*wire.BlockLocator, error) {
	_, height, ok, err := s.bestTip()
	if err != nil {
		return nil, err
	}
	if !ok {
		return wire.NewBlockLocator(nil), nil
	}
	return s.BlockLocator(height)
}

// ForEach visits the height index in ascending order.
func (s *Store) ForEach(fn func(height int32, header *wire.BlockHeader) error) error {
	return s.kv.ForEachPrefix(heightPrefix, func(key, value []byte) error {
		if len(key) != 5 || len(value) != chainhash.HashSize {
			return errors.Errorf("corrupt height index entry %x", key)
		}
		var hash chainhash.Hash
		copy(hash[:], value)

		header, height, err := s.HeaderByHash(hash)
		if err != nil {
			return err
		}
		return fn(height, header)
	})
}

// Stats reports the figures exported as chain gauges.
func (s *Store) Stats() map[string]float64 {
	stats := make(map[string]float64, 2)
	if _, height, ok, err := s.bestTip(); err == nil && ok {
		stats["best_height"] = float64(height)
	}
	if count, err := s.count(); err == nil {
		stats["headers"] = float64(count)
	}
	return stats
}

func (s *Store) bestTip() (hash chainhash.Hash, height int32, ok bool, err error) {
	value, err := s.kv.Get(bestKey)
	if err != nil || value == nil {
		return hash, 0, false, err
	}
	if len(value) != chainhash.HashSize+4 {
		return hash, 0, false, errors.Errorf("corrupt best tip entry of %d bytes", len(value))
	}
	copy(hash[:], value)
	return hash, int32(binary.BigEndian.Uint32(value[chainhash.HashSize:])), true, nil
}

func (s *Store) count() (uint64, error) {
	value, err := s.kv.Get(countKey)
	if err != nil || value == nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, errors.Errorf("corrupt header count entry of %d bytes", len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

func decodeEntry(value []byte) (*wire.BlockHeader, int32, error) {
	if len(value) < 4 {
		return nil, 0, errors.Errorf("corrupt header entry of %d bytes", len(value))
	}
	height := int32(binary.BigEndian.Uint32(value[:4]))
	header, err := wire.DecodeBlockHeader(bytes.NewReader(value[4:]))
	if err != nil {
		return nil, 0, errors.Wrap(err, "can't decode stored header")
	}
	return header, height, nil
}
