/*
 * Copyright (c) 2021 The JaxNetwork developers
 * Use of this source code is governed by an ISC
 * license that can be found in the LICENSE file.
 */

package chaincfg

import (
	"sync"

	btcchainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// genesisMessage is pushed into the genesis coinbase script.
const genesisMessage = "Jax.Network enters the race! "

type genesisDataState struct {
	genesisBlock *wire.MsgBlock
	genesisHash  chainhash.Hash
}

var (
	stateLock      sync.Mutex
	genesisStorage = map[NetName]*genesisDataState{}
)

func cleanState() {
	stateLock.Lock()
	genesisStorage = map[NetName]*genesisDataState{}
	stateLock.Unlock()
}

func genesisCoinbaseTx() *btcwire.MsgTx {
	script, err := txscript.NewScriptBuilder().
		AddInt64(0).
		AddData([]byte(genesisMessage)).
		Script()
	if err != nil {
		panic(err)
	}

	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: *btcwire.NewOutPoint(&btcchainhash.Hash{}, 0xffffffff),
		SignatureScript:  script,
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: 0, PkScript: []byte{txscript.OP_RETURN}})
	return tx
}

func genesisState(p *Params) *genesisDataState {
	stateLock.Lock()
	defer stateLock.Unlock()

	if state, ok := genesisStorage[p.Name]; ok {
		return state
	}

	tx := genesisCoinbaseTx()
	opts := p.GenesisOpts
	header := wire.PureBlockHeader{
		Version:    opts.Version,
		MerkleRoot: wire.TxHash(tx),
		Timestamp:  opts.Timestamp,
		Bits:       opts.Bits,
		Nonce:      opts.Nonce,
	}

	block := wire.NewMsgBlock(wire.NewBlockHeader(header))
	block.AddTransaction(tx)

	state := &genesisDataState{
		genesisBlock: block,
		genesisHash:  block.BlockHash(),
	}
	genesisStorage[p.Name] = state
	return state
}

func genesisBlock(p *Params) *wire.MsgBlock {
	state := genesisState(p)

	// Hand out a copy of the header so callers can't corrupt the cache.
	block := *state.genesisBlock
	block.Header = *state.genesisBlock.Header.Copy()
	block.Transactions = append(block.Transactions[:0:0], state.genesisBlock.Transactions...)
	return &block
}

func genesisHash(p *Params) chainhash.Hash {
	return genesisState(p).genesisHash
}
