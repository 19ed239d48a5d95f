// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
	"golang.org/x/sync/errgroup"
)

// Observer receives the outcome of every header validation.
type Observer interface {
	ObserveHeader(kind wire.HeaderKind, err error, elapsed time.Duration)
}

// HeaderValidator runs the proof-of-work rules of a network and remembers
// what already passed.
type HeaderValidator struct {
	params   *chaincfg.Params
	checker  PowChecker
	cache    *CheckedCache
	observer Observer
}

// NewHeaderValidator creates a validator. A nil checker selects the target
// checker of params; cache and observer are optional.
func NewHeaderValidator(params *chaincfg.Params, checker PowChecker, cache *CheckedCache,
	observer Observer) *HeaderValidator {
	if checker == nil {
		checker = NewTargetChecker(params)
	}
	return &HeaderValidator{
		params:   params,
		checker:  checker,
		cache:    cache,
		observer: observer,
	}
}

// Params returns the network the validator checks against.
func (v *HeaderValidator) Params() *chaincfg.Params { return v.params }

// Cache scopes keep header and block outcomes apart: a header check says
// nothing about the transactions of its block.
const (
	headerScope byte = 'h'
	blockScope  byte = 'b'
)

// checkKey identifies one validation outcome. It commits to the scope, the
// activation state at height and the full encoding, auxpow included, so a
// header differing only in its proof never shares an entry.
func (v *HeaderValidator) checkKey(scope byte, height int32, encode func(io.Writer) error) (chainhash.Hash, bool) {
	var buf bytes.Buffer
	buf.WriteByte(scope)
	if v.params.IsAuxpowActive(height) {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	if err := encode(&buf); err != nil {
		return chainhash.Hash{}, false
	}
	return chainhash.DoubleHashH(buf.Bytes()), true
}

func (v *HeaderValidator) headerKey(header *wire.BlockHeader, height int32) (chainhash.Hash, bool) {
	return v.checkKey(headerScope, height, header.Serialize)
}

func (v *HeaderValidator) blockKey(block *wire.MsgBlock, height int32) (chainhash.Hash, bool) {
	return v.checkKey(blockScope, height, block.Serialize)
}

// CheckHeader validates the proof-of-work of header at height. Headers
// seen valid before under the same activation state are accepted from the
// cache.
func (v *HeaderValidator) CheckHeader(header *wire.BlockHeader, height int32) error {
	key, cacheable := v.headerKey(header, height)
	if cacheable && v.cache.IsChecked(key) {
		return nil
	}

	start := time.Now()
	err := CheckAuxPowProofOfWork(header, height, v.params, v.checker)
	if v.observer != nil {
		v.observer.ObserveHeader(header.Kind(), err, time.Since(start))
	}

	if err != nil {
		log.Debug().Stringer("hash", header.BlockHash()).Int32("height", height).
			Stringer("kind", header.Kind()).Err(err).Msg("header rejected")
		return err
	}

	if cacheable {
		v.cache.MarkChecked(key)
	}
	return nil
}

// CheckBlock runs the block sanity rules once per distinct block encoding.
func (v *HeaderValidator) CheckBlock(block *wire.MsgBlock, height int32, timeSource MedianTimeSource) error {
	key, cacheable := v.blockKey(block, height)
	if cacheable && v.cache.IsChecked(key) {
		return nil
	}

	err := CheckBlockSanity(block, height, v.params, v.checker, timeSource, BFNone)
	if err != nil {
		log.Debug().Stringer("hash", block.BlockHash()).Int32("height", height).Err(err).Msg("block rejected")
		return err
	}

	if cacheable {
		v.cache.MarkChecked(key)
	}
	return nil
}

// CheckHeadersConcurrently validates headers[i] at startHeight+i on up to
// workers goroutines. The first failure cancels the remaining work and is
// returned.
func (v *HeaderValidator) CheckHeadersConcurrently(ctx context.Context, headers []*wire.BlockHeader,
	startHeight int32, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range headers {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				height := startHeight + int32(i)
				if err := v.CheckHeader(headers[i], height); err != nil {
					return errors.Wrapf(err, "header at height %d", height)
				}
			}
			return nil
		})
	}

	return g.Wait()
}
