// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"math"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// unknownTxIndex is the wire value of an unconfirmed transaction position.
const unknownTxIndex int32 = -1

// TxIndex is the position of a transaction inside a block. The zero value
// means the position is unknown, which is encoded as -1 on the wire.
type TxIndex struct {
	pos   uint32
	known bool
}

// KnownTxIndex returns a TxIndex pointing at pos. Positions above
// math.MaxInt32 fail to serialize.
func KnownTxIndex(pos uint32) TxIndex { return TxIndex{pos: pos, known: true} }

// Get returns the position and whether it is known.
func (i TxIndex) Get() (uint32, bool) { return i.pos, i.known }

// IsKnown reports whether the position is set.
func (i TxIndex) IsKnown() bool { return i.known }

func (i TxIndex) String() string {
	if !i.known {
		return "unknown"
	}
	return fmt.Sprint(i.pos)
}

// wireValue fails for positions that do not fit the signed wire field.
func (i TxIndex) wireValue() (int32, error) {
	if !i.known {
		return unknownTxIndex, nil
	}
	if i.pos > math.MaxInt32 {
		return 0, Error("writeMerkleTx", fmt.Sprintf("tx index %d exceeds %d", i.pos, math.MaxInt32))
	}
	return int32(i.pos), nil
}

func txIndexFromWire(v int32) (TxIndex, error) {
	switch {
	case v == unknownTxIndex:
		return TxIndex{}, nil
	case v < 0:
		return TxIndex{}, Error("readMerkleTx", fmt.Sprintf("invalid tx index %d", v))
	default:
		return KnownTxIndex(uint32(v)), nil
	}
}

// TxHash returns the identity hash of a transaction.
func TxHash(tx *btcwire.MsgTx) chainhash.Hash {
	return chainhash.Hash(tx.TxHash())
}

// MerkleTx is a transaction together with the merkle branch linking it to
// a block. The transaction is shared and must be treated as read-only.
type MerkleTx struct {
	Tx *btcwire.MsgTx

	// BlockHash is the block the transaction was seen in, zero if unknown.
	BlockHash chainhash.Hash

	MerkleBranch []chainhash.Hash

	Index TxIndex
}

// NewMerkleTx returns a reference to tx with an unknown position.
func NewMerkleTx(tx *btcwire.MsgTx) MerkleTx {
	return MerkleTx{Tx: tx}
}

// TxHash returns the hash of the referenced transaction.
func (m *MerkleTx) TxHash() chainhash.Hash {
	return TxHash(m.Tx)
}

// IsConfirmed reports whether the reference points at a concrete block
// position.
func (m *MerkleTx) IsConfirmed() bool {
	return m.Index.IsKnown()
}

// VerifyInclusion reports whether the branch links the transaction to root.
func (m *MerkleTx) VerifyInclusion(root chainhash.Hash) bool {
	pos, ok := m.Index.Get()
	if !ok {
		return false
	}
	return chainhash.VerifyMerkleProof(m.TxHash(), m.MerkleBranch, pos, root)
}

// Copy returns a copy with its own branch slice. The transaction handle
// stays shared.
func (m *MerkleTx) Copy() MerkleTx {
	clone := *m
	clone.MerkleBranch = make([]chainhash.Hash, len(m.MerkleBranch))
	copy(clone.MerkleBranch, m.MerkleBranch)
	return clone
}

// Deserialize decodes a merkle tx from r into the receiver.
func (m *MerkleTx) Deserialize(r io.Reader) error {
	return readMerkleTx(r, m)
}

// Serialize encodes the merkle tx into w.
func (m *MerkleTx) Serialize(w io.Writer) error {
	return writeMerkleTx(w, m)
}

func readMerkleTx(r io.Reader, m *MerkleTx) error {
	tx := new(btcwire.MsgTx)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return txDecodeError("readMerkleTx", err)
	}
	m.Tx = tx

	if err := ReadElement(r, &m.BlockHash); err != nil {
		return truncated("readMerkleTx", err)
	}

	branch, err := ReadHashArray(r, MaxMerkleBranchHashes, "merkle branch")
	if err != nil {
		return truncated("readMerkleTx", err)
	}
	m.MerkleBranch = branch

	var index int32
	if err = ReadElement(r, &index); err != nil {
		return truncated("readMerkleTx", err)
	}
	m.Index, err = txIndexFromWire(index)
	return err
}

func writeMerkleTx(w io.Writer, m *MerkleTx) error {
	if m.Tx == nil {
		return Error("writeMerkleTx", "transaction is not set")
	}
	if err := m.Tx.SerializeNoWitness(w); err != nil {
		return err
	}
	if err := WriteElement(w, &m.BlockHash); err != nil {
		return err
	}
	if err := WriteHashArray(w, m.MerkleBranch); err != nil {
		return err
	}
	index, err := m.Index.wireValue()
	if err != nil {
		return err
	}
	return WriteElement(w, index)
}

// txDecodeError maps transaction decoding failures into MessageError.
func txDecodeError(fn string, err error) error {
	var merr *btcwire.MessageError
	if errors.As(err, &merr) {
		return Error(fn, merr.Error())
	}
	return truncated(fn, err)
}
