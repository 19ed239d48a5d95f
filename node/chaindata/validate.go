// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"fmt"
	"math"
	"time"

	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// BehaviorFlags is a bitmask defining tweaks to the normal behavior when
// performing chain processing and consensus rules checks.
type BehaviorFlags uint32

const (
	// BFNoPoWCheck may be set to indicate the proof of work check which
	// ensures a block hashes to a value less than the required target will
	// not be performed.
	BFNoPoWCheck BehaviorFlags = 1 << iota

	// BFNone is a convenience value to specifically indicate no flags.
	BFNone BehaviorFlags = 0
)

// MedianTimeSource provides the time blocks are compared against.
type MedianTimeSource interface {
	AdjustedTime() time.Time
}

// SystemTime is a MedianTimeSource reading the local clock.
type SystemTime struct{}

// AdjustedTime returns the current time truncated to seconds.
func (SystemTime) AdjustedTime() time.Time { return time.Unix(time.Now().Unix(), 0) }

// isNullOutpoint determines whether or not a previous transaction output point
// is set.
func isNullOutpoint(outpoint *btcwire.OutPoint) bool {
	return outpoint.Index == math.MaxUint32 && outpoint.Hash == [chainhash.HashSize]byte{}
}

// IsCoinBaseTx determines whether or not a transaction is a coinbase.  A coinbase
// is a special transaction created by miners that has no inputs.  This is
// represented in the block chain by a transaction with a single input that has
// a previous output transaction index set to the maximum value along with a
// zero hash.
func IsCoinBaseTx(msgTx *btcwire.MsgTx) bool {
	// A coin base must only have one transaction input.
	if len(msgTx.TxIn) != 1 {
		return false
	}

	// The previous output of a coin base must have a max value index and
	// a zero hash.
	return isNullOutpoint(&msgTx.TxIn[0].PreviousOutPoint)
}

// checkBlockHeaderSanity performs some preliminary checks on a block header to
// ensure it is sane before continuing with processing.  These checks are
// context free.
func checkBlockHeaderSanity(header *wire.BlockHeader, height int32, params *chaincfg.Params,
	checker PowChecker, timeSource MedianTimeSource, flags BehaviorFlags) error {
	if flags&BFNoPoWCheck != BFNoPoWCheck {
		if err := CheckAuxPowProofOfWork(header, height, params, checker); err != nil {
			return err
		}
	}

	// A block timestamp must not have a greater precision than one second.
	// This check is necessary because Go time.Time values support
	// nanosecond precision whereas the consensus rules only apply to
	// seconds and it's much nicer to deal with standard Go time values
	// instead of converting to seconds everywhere.
	if !header.Timestamp.Equal(time.Unix(header.Timestamp.Unix(), 0)) {
		str := fmt.Sprintf("block timestamp of %v has a higher precision than one second", header.Timestamp)
		return NewRuleError(ErrInvalidTime, str)
	}

	// Ensure the block time is not too far in the future.
	maxTimestamp := timeSource.AdjustedTime().Add(params.MaxTimeOffset)
	if header.Timestamp.After(maxTimestamp) {
		str := fmt.Sprintf("block timestamp of %v is too far in the future", header.Timestamp)
		return NewRuleError(ErrTimeTooNew, str)
	}

	return nil
}

// CheckBlockSanity performs some preliminary checks on a block to ensure it is
// sane before continuing with block processing.  These checks are context free.
//
// The flags do not modify the behavior of this function directly, however they
// are needed to pass along to checkBlockHeaderSanity.
func CheckBlockSanity(block *wire.MsgBlock, height int32, params *chaincfg.Params,
	checker PowChecker, timeSource MedianTimeSource, flags BehaviorFlags) error {
	header := &block.Header
	err := checkBlockHeaderSanity(header, height, params, checker, timeSource, flags)
	if err != nil {
		return err
	}

	// A block must have at least one transaction.
	numTx := len(block.Transactions)
	if numTx == 0 {
		return NewRuleError(ErrNoTransactions, "block does not contain any transactions")
	}

	// A block must not exceed the maximum allowed block payload when
	// serialized.
	serializedSize := block.SerializeSize()
	if serializedSize > wire.MaxBlockPayload {
		str := fmt.Sprintf("serialized block is too big - got %d, max %d",
			serializedSize, wire.MaxBlockPayload)
		return NewRuleError(ErrBlockTooBig, str)
	}

	// The first transaction in a block must be a coinbase.
	if !IsCoinBaseTx(block.Transactions[0]) {
		return NewRuleError(ErrFirstTxNotCoinbase, "first transaction in block is not a coinbase")
	}

	// A block must not have more than one coinbase.
	for i, tx := range block.Transactions[1:] {
		if IsCoinBaseTx(tx) {
			str := fmt.Sprintf("block contains second coinbase at index %d", i+1)
			return NewRuleError(ErrMultipleCoinbases, str)
		}
	}

	// Build merkle tree and ensure the calculated merkle root matches the
	// entry in the block header.
	calculatedMerkleRoot, mutated := block.MerkleRoot()
	if header.MerkleRoot != calculatedMerkleRoot {
		str := fmt.Sprintf("block merkle root is invalid - block header indicates %v, "+
			"but calculated value is %v", header.MerkleRoot, calculatedMerkleRoot)
		return NewRuleError(ErrBadMerkleRoot, str)
	}

	// A tree with two identical siblings hashes to the same root as a
	// shorter transaction list.
	if mutated {
		return NewRuleError(ErrDuplicateTx, "block merkle tree is mutated by repeated transactions")
	}

	// Check for duplicate transactions.
	existingTxHashes := make(map[chainhash.Hash]struct{}, numTx)
	for _, hash := range block.TxHashes() {
		if _, exists := existingTxHashes[hash]; exists {
			str := fmt.Sprintf("block contains duplicate transaction %v", hash)
			return NewRuleError(ErrDuplicateTx, str)
		}
		existingTxHashes[hash] = struct{}{}
	}

	return nil
}
