// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// defaultTransactionAlloc is the default size used for the backing array
// for transactions.  The transaction array will dynamically grow as needed,
// but this figure is intended to provide enough space for the number of
// transactions in the vast majority of blocks without needing to grow the
// backing array multiple times.
const defaultTransactionAlloc = 2048

// maxTxPerBlock is the maximum number of transactions that could
// possibly fit into a block.
const maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1

// MsgBlock is a block header followed by its transactions.
//
// Extension holds an extension block payload owned by the caller's format.
// It is carried along but neither encoded nor interpreted here.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*btcwire.MsgTx
	Extension    []byte
}

// NewMsgBlock returns a new block with the provided header and no
// transactions.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *header,
		Transactions: make([]*btcwire.MsgTx, 0, defaultTransactionAlloc),
	}
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *btcwire.MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*btcwire.MsgTx, 0, defaultTransactionAlloc)
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// TxHashes returns the identity hashes of all transactions in block order.
func (msg *MsgBlock) TxHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(msg.Transactions))
	for i, tx := range msg.Transactions {
		hashes[i] = TxHash(tx)
	}
	return hashes
}

// MerkleRoot computes the transaction merkle root. mutated reports a tree
// that another transaction list hashes to as well.
func (msg *MsgBlock) MerkleRoot() (root chainhash.Hash, mutated bool) {
	return chainhash.MerkleRoot(msg.TxHashes())
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	n := msg.Header.SerializeSize() + VarIntSerializeSize(uint64(len(msg.Transactions)))
	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

// Deserialize decodes a block from r into the receiver. Extension is not
// on the wire and is cleared.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	msg.Extension = nil
	if err := readBlockHeader(r, &msg.Header); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return truncated("MsgBlock.Deserialize", err)
	}

	// Prevent more transactions than could possibly fit into a block.
	// It would be possible to cause memory exhaustion and panics without
	// a sane upper bound on this count.
	if txCount > maxTxPerBlock {
		str := fmt.Sprintf("too many transactions to fit into a block "+
			"[count %d, max %d]", txCount, maxTxPerBlock)
		return Error("MsgBlock.Deserialize", str)
	}

	msg.Transactions = make([]*btcwire.MsgTx, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := new(btcwire.MsgTx)
		if err := tx.Deserialize(r); err != nil {
			return txDecodeError("MsgBlock.Deserialize", err)
		}
		msg.Transactions = append(msg.Transactions, tx)
	}

	return nil
}

// Serialize encodes the block into w.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := writeBlockHeader(w, &msg.Header); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the serialized block.
func (msg *MsgBlock) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	err := msg.Serialize(buf)
	return buf.Bytes(), err
}

// String returns a multi-line description of the block.
func (msg *MsgBlock) String() string {
	var s bytes.Buffer
	h := &msg.Header
	fmt.Fprintf(&s, "MsgBlock(hash=%s, ver=0x%08x, kind=%s, prevBlock=%s, "+
		"merkleRoot=%s, time=%d, bits=%08x, nonce=%d, txs=%d)\n",
		h.BlockHash(), uint32(h.Version), h.Kind(), h.PrevBlock, h.MerkleRoot,
		h.BlockTime(), h.Bits, h.Nonce, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		fmt.Fprintf(&s, "  tx=%s in=%d out=%d\n", tx.TxHash(), len(tx.TxIn), len(tx.TxOut))
	}
	return s.String()
}

// DecodeBlock reads a single block from r.
func DecodeBlock(r io.Reader) (*MsgBlock, error) {
	block := &MsgBlock{}
	err := block.Deserialize(r)
	return block, err
}
