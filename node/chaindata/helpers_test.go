// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"math"
	"sync"
	"testing"
	"time"

	btcchainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

var regtest = &chaincfg.RegressionNetParams

var testTime = time.Unix(1600000000, 0)

// acceptAll is a PowChecker that accepts any hash.
var acceptAll = PowCheckerFunc(func(chainhash.Hash, uint32) error { return nil })

func newCoinbaseTx(seed byte) *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: *btcwire.NewOutPoint(&btcchainhash.Hash{}, math.MaxUint32),
		SignatureScript:  []byte{0x01, seed},
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: 5000, PkScript: []byte{0x51}})
	return tx
}

func newSpendTx(seed byte) *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Hash: btcchainhash.Hash{seed}, Index: 0},
		SignatureScript:  []byte{seed},
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: int64(seed), PkScript: []byte{0x51}})
	return tx
}

func newTestHeader(t *testing.T, nonce uint32) *wire.BlockHeader {
	pure := wire.PureBlockHeader{
		PrevBlock: chainhash.Hash{0x01},
		Timestamp: testTime,
		Bits:      regtest.PowLimitBits,
		Nonce:     nonce,
	}
	require.NoError(t, pure.SetBaseVersion(4, wire.AuxpowChainID))
	return wire.NewBlockHeader(pure)
}

// solveHeader grinds the header nonce until its own PoW meets regtest.
func solveHeader(t *testing.T, h *wire.BlockHeader) {
	checker := NewTargetChecker(regtest)
	for i := 0; i < 1000; i++ {
		if checker.CheckProofOfWork(h.PoWHash(), h.Bits) == nil {
			return
		}
		h.Nonce++
	}
	t.Fatal("header not solved")
}

// mergeMine attaches an auxpow whose parent meets regtest.
func mergeMine(t *testing.T, h *wire.BlockHeader) {
	require.NoError(t, wire.InitAuxPow(h))

	checker := NewTargetChecker(regtest)
	err := h.AuxPow().MineParent(func(pow chainhash.Hash) bool {
		return checker.CheckProofOfWork(pow, h.Bits) == nil
	}, 1000)
	require.NoError(t, err)
}

func newTestBlock(t *testing.T, txs ...*btcwire.MsgTx) *wire.MsgBlock {
	block := wire.NewMsgBlock(newTestHeader(t, 0))
	for _, tx := range txs {
		block.AddTransaction(tx)
	}
	block.Header.MerkleRoot, _ = block.MerkleRoot()
	return block
}

type fixedTime time.Time

func (f fixedTime) AdjustedTime() time.Time { return time.Time(f) }

type outcome struct {
	kind wire.HeaderKind
	err  error
}

type recordingObserver struct {
	mtx      sync.Mutex
	outcomes []outcome
}

func (o *recordingObserver) ObserveHeader(kind wire.HeaderKind, err error, _ time.Duration) {
	o.mtx.Lock()
	o.outcomes = append(o.outcomes, outcome{kind: kind, err: err})
	o.mtx.Unlock()
}

func (o *recordingObserver) count() int {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return len(o.outcomes)
}
