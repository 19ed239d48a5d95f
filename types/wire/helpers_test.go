// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"
	"time"

	btcchainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

var testTime = time.Unix(1600000000, 0)

func newTestTx(seed byte) *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Hash: btcchainhash.Hash{seed}, Index: 1},
		SignatureScript:  []byte{seed, 0x01},
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: int64(seed) * 1000, PkScript: []byte{0x51}})
	return tx
}

func newTestHeader(t *testing.T) PureBlockHeader {
	h := PureBlockHeader{
		PrevBlock:  chainhash.Hash{0xaa, 0x01},
		MerkleRoot: chainhash.Hash{0xbb, 0x02},
		Timestamp:  testTime,
		Bits:       0x1e0ffff0,
		Nonce:      42,
	}
	require.NoError(t, h.SetBaseVersion(4, AuxpowChainID))
	return h
}

// buildAuxPow assembles a proof whose parent block holds the coinbase and
// two more transactions.
func buildAuxPow(commitment MergedMiningCommitment, branch []chainhash.Hash, index int32) *AuxPow {
	coinbase := NewParentCoinbase([]byte{0x03, 0x0a, 0x0b, 0x0c}, commitment)
	leaves := []chainhash.Hash{TxHash(coinbase), TxHash(newTestTx(1)), TxHash(newTestTx(2))}

	ref := NewMerkleTx(coinbase)
	ref.Index = KnownTxIndex(0)
	ref.MerkleBranch = chainhash.BuildCoinbaseMerkleTreeProof(leaves)

	return &AuxPow{
		CoinbaseTx:        ref,
		ChainMerkleBranch: branch,
		ChainIndex:        index,
		ParentBlock: PureBlockHeader{
			Version:    2,
			MerkleRoot: chainhash.MerkleTreeRoot(leaves),
			Timestamp:  testTime,
			Bits:       0x1d00ffff,
		},
	}
}
