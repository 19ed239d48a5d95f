// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

func mustHeaderKey(t *testing.T, v *HeaderValidator, h *wire.BlockHeader, height int32) chainhash.Hash {
	key, ok := v.headerKey(h, height)
	require.True(t, ok)
	return key
}

func TestHeaderValidatorCache(t *testing.T) {
	observer := &recordingObserver{}
	cache := NewCheckedCache(16)
	v := NewHeaderValidator(regtest, nil, cache, observer)

	h := newTestHeader(t, 0)
	mergeMine(t, h)

	require.NoError(t, v.CheckHeader(h, 1))
	require.NoError(t, v.CheckHeader(h, 1))
	assert.Equal(t, 1, observer.count(), "the second call is served from the cache")
	key := mustHeaderKey(t, v, h, 1)
	assert.True(t, cache.IsChecked(key))
	assert.False(t, cache.IsChecked(h.BlockHash()), "entries are not keyed by block hash")
	assert.Equal(t, wire.MergeMinedHeader, observer.outcomes[0].kind)

	cache.Remove(key)
	require.NoError(t, v.CheckHeader(h, 1), "re-validation gives the same answer")
	assert.Equal(t, 2, observer.count())
}

func TestHeaderValidatorRejectNotCached(t *testing.T) {
	observer := &recordingObserver{}
	cache := NewCheckedCache(16)
	v := NewHeaderValidator(regtest, acceptAll, cache, observer)

	h := newTestHeader(t, 0)
	h.SetAuxpowFlag(true)

	err := v.CheckHeader(h, 1)
	assert.True(t, IsErrorCode(err, ErrAuxPowFlagMismatch))
	assert.False(t, cache.IsChecked(mustHeaderKey(t, v, h, 1)))
	assert.Equal(t, 0, cache.Len())
	require.Equal(t, 1, observer.count())
	assert.Error(t, observer.outcomes[0].err)
}

func TestHeaderValidatorCheckBlock(t *testing.T) {
	cache := NewCheckedCache(16)
	v := NewHeaderValidator(regtest, nil, cache, nil)

	block := newTestBlock(t, newCoinbaseTx(1), newSpendTx(2))
	solveHeader(t, &block.Header)

	require.NoError(t, v.CheckBlock(block, 1, fixedTime(testTime)))
	key, ok := v.blockKey(block, 1)
	require.True(t, ok)
	assert.True(t, cache.IsChecked(key))
	assert.Equal(t, regtest, v.Params())
}

func TestHeaderValidatorHeaderPassDoesNotCoverBlock(t *testing.T) {
	cache := NewCheckedCache(16)
	v := NewHeaderValidator(regtest, nil, cache, nil)

	block := newTestBlock(t, newCoinbaseTx(1), newSpendTx(2))
	solveHeader(t, &block.Header)
	block.Transactions[1] = newSpendTx(3)

	require.NoError(t, v.CheckHeader(&block.Header, 1))
	err := v.CheckBlock(block, 1, fixedTime(testTime))
	assert.True(t, IsErrorCode(err, ErrBadMerkleRoot), "got %v", err)
}

func TestHeaderValidatorBlockCacheFollowsTransactions(t *testing.T) {
	cache := NewCheckedCache(16)
	v := NewHeaderValidator(regtest, nil, cache, nil)

	block := newTestBlock(t, newCoinbaseTx(1), newSpendTx(2))
	solveHeader(t, &block.Header)
	require.NoError(t, v.CheckBlock(block, 1, fixedTime(testTime)))

	block.Transactions[1] = newSpendTx(3)
	err := v.CheckBlock(block, 1, fixedTime(testTime))
	assert.True(t, IsErrorCode(err, ErrBadMerkleRoot), "got %v", err)
}

func TestHeaderValidatorCacheRespectsActivation(t *testing.T) {
	params := *regtest
	params.AuxpowStartHeight = 100
	v := NewHeaderValidator(&params, nil, NewCheckedCache(16), nil)

	h := newTestHeader(t, 0)
	mergeMine(t, h)

	require.NoError(t, v.CheckHeader(h, 100))
	err := v.CheckHeader(h, 99)
	assert.True(t, IsErrorCode(err, ErrAuxPowNotActive), "got %v", err)
	require.NoError(t, v.CheckHeader(h, 101))
}

func TestHeaderValidatorCacheCoversAuxPow(t *testing.T) {
	observer := &recordingObserver{}
	v := NewHeaderValidator(regtest, nil, NewCheckedCache(16), observer)

	h := newTestHeader(t, 0)
	mergeMine(t, h)
	require.NoError(t, v.CheckHeader(h, 1))

	forged := h.Copy()
	forged.AuxPow().ChainMerkleBranch = append(forged.AuxPow().ChainMerkleBranch, chainhash.Hash{0xee})
	require.Equal(t, h.BlockHash(), forged.BlockHash())

	err := v.CheckHeader(forged, 1)
	assert.True(t, IsErrorCode(err, ErrBadAuxPow), "got %v", err)
	assert.Equal(t, 2, observer.count())
}

func TestCheckHeadersConcurrently(t *testing.T) {
	headers := make([]*wire.BlockHeader, 24)
	for i := range headers {
		h := newTestHeader(t, uint32(i)*1000)
		if i%2 == 0 {
			mergeMine(t, h)
		} else {
			solveHeader(t, h)
		}
		headers[i] = h
	}

	observer := &recordingObserver{}
	v := NewHeaderValidator(regtest, nil, nil, observer)
	require.NoError(t, v.CheckHeadersConcurrently(context.Background(), headers, 1, 4))
	assert.Equal(t, len(headers), observer.count())

	bad := headers[17].Copy()
	bad.SetAuxpowFlag(true)
	headers[17] = bad

	err := v.CheckHeadersConcurrently(context.Background(), headers, 1, 4)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrAuxPowFlagMismatch), "got %v", err)
	assert.Contains(t, err.Error(), "height 18")
}

func TestCheckHeadersConcurrentlyCanceled(t *testing.T) {
	headers := []*wire.BlockHeader{newTestHeader(t, 0), newTestHeader(t, 1)}
	v := NewHeaderValidator(regtest, acceptAll, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.CheckHeadersConcurrently(ctx, headers, 1, 0)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
