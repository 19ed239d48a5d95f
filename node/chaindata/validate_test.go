// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"testing"
	"time"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

func TestCheckBlockSanity(t *testing.T) {
	now := fixedTime(testTime.Add(time.Hour))

	block := newTestBlock(t, newCoinbaseTx(1), newSpendTx(2), newSpendTx(3))
	assert.NoError(t, CheckBlockSanity(block, 1, regtest, acceptAll, now, BFNoPoWCheck))

	solveHeader(t, &block.Header)
	assert.NoError(t, CheckBlockSanity(block, 1, regtest, NewTargetChecker(regtest), now, BFNone))
}

func TestCheckBlockSanityRejects(t *testing.T) {
	now := fixedTime(testTime.Add(time.Hour))

	tests := []struct {
		name  string
		block func(t *testing.T) *wire.MsgBlock
		code  ErrorCode
	}{
		{
			name: "no transactions",
			block: func(t *testing.T) *wire.MsgBlock {
				return newTestBlock(t)
			},
			code: ErrNoTransactions,
		},
		{
			name: "first not coinbase",
			block: func(t *testing.T) *wire.MsgBlock {
				return newTestBlock(t, newSpendTx(1), newSpendTx(2))
			},
			code: ErrFirstTxNotCoinbase,
		},
		{
			name: "second coinbase",
			block: func(t *testing.T) *wire.MsgBlock {
				return newTestBlock(t, newCoinbaseTx(1), newCoinbaseTx(2))
			},
			code: ErrMultipleCoinbases,
		},
		{
			name: "bad merkle root",
			block: func(t *testing.T) *wire.MsgBlock {
				block := newTestBlock(t, newCoinbaseTx(1), newSpendTx(2))
				block.Header.MerkleRoot[0] ^= 0x01
				return block
			},
			code: ErrBadMerkleRoot,
		},
		{
			name: "mutated merkle tree",
			block: func(t *testing.T) *wire.MsgBlock {
				return newTestBlock(t, newCoinbaseTx(1), newSpendTx(2), newSpendTx(3), newSpendTx(3))
			},
			code: ErrDuplicateTx,
		},
		{
			name: "duplicate transaction",
			block: func(t *testing.T) *wire.MsgBlock {
				return newTestBlock(t, newCoinbaseTx(1), newSpendTx(2), newSpendTx(3), newSpendTx(2))
			},
			code: ErrDuplicateTx,
		},
		{
			name: "timestamp too new",
			block: func(t *testing.T) *wire.MsgBlock {
				block := newTestBlock(t, newCoinbaseTx(1))
				block.Header.Timestamp = testTime.Add(4 * time.Hour)
				return block
			},
			code: ErrTimeTooNew,
		},
		{
			name: "sub-second timestamp",
			block: func(t *testing.T) *wire.MsgBlock {
				block := newTestBlock(t, newCoinbaseTx(1))
				block.Header.Timestamp = testTime.Add(time.Millisecond)
				return block
			},
			code: ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBlockSanity(tt.block(t), 1, regtest, acceptAll, now, BFNoPoWCheck)
			require.Error(t, err)
			assert.True(t, IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCheckBlockSanityChecksPoW(t *testing.T) {
	now := fixedTime(testTime)
	block := newTestBlock(t, newCoinbaseTx(1))

	reject := PowCheckerFunc(func(_ chainhash.Hash, _ uint32) error {
		return NewRuleError(ErrHighHash, "too high")
	})
	err := CheckBlockSanity(block, 1, regtest, reject, now, BFNone)
	assert.True(t, IsErrorCode(err, ErrHighHash))
}

func TestIsCoinBaseTx(t *testing.T) {
	assert.True(t, IsCoinBaseTx(newCoinbaseTx(1)))
	assert.False(t, IsCoinBaseTx(newSpendTx(1)))

	tx := newCoinbaseTx(1)
	tx.AddTxIn(&btcwire.TxIn{})
	assert.False(t, IsCoinBaseTx(tx))
}
