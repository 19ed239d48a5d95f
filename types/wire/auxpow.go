// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// MaxChainMerkleBranchLength is the deepest chain merkle tree a parent
// coinbase may commit to.
const MaxChainMerkleBranchLength = 30

// AuxPow is the merge-mining proof attached to a header carrying the auxpow
// version flag. The proof-of-work is done on ParentBlock; the parent
// coinbase commits to the root of the chain merkle tree holding the hash of
// the merge-mined block.
type AuxPow struct {
	// CoinbaseTx is the parent block coinbase and its branch to the parent
	// merkle root.
	CoinbaseTx MerkleTx

	// ChainMerkleBranch links the merge-mined block hash to the chain
	// merkle root committed in the coinbase script.
	ChainMerkleBranch []chainhash.Hash

	// ChainIndex is the leaf of the chain merkle tree claimed by this chain.
	ChainIndex int32

	// ParentBlock is the header the proof-of-work was done on.
	ParentBlock PureBlockHeader
}

// ParentPoWHash returns the parent header hash compared against the target.
func (a *AuxPow) ParentPoWHash() chainhash.Hash {
	return a.ParentBlock.PoWHash()
}

// ParentBlockHash returns the identity hash of the parent header.
func (a *AuxPow) ParentBlockHash() chainhash.Hash {
	return a.ParentBlock.BlockHash()
}

// Copy creates a deep copy of the AuxPow so that the original does not get
// modified when the copy is manipulated. The coinbase transaction handle is
// shared.
func (a *AuxPow) Copy() *AuxPow {
	clone := *a
	clone.CoinbaseTx = a.CoinbaseTx.Copy()
	clone.ChainMerkleBranch = make([]chainhash.Hash, len(a.ChainMerkleBranch))
	copy(clone.ChainMerkleBranch, a.ChainMerkleBranch)
	return &clone
}

// SerializeSize returns the number of bytes the AuxPow takes on the wire.
func (a *AuxPow) SerializeSize() int {
	var buf bytes.Buffer
	_ = a.Serialize(&buf)
	return buf.Len()
}

// Deserialize decodes an AuxPow from r into the receiver.
func (a *AuxPow) Deserialize(r io.Reader) error {
	return readAuxPow(r, a)
}

// Serialize encodes the AuxPow into w.
func (a *AuxPow) Serialize(w io.Writer) error {
	return writeAuxPow(w, a)
}

func readAuxPow(r io.Reader, a *AuxPow) error {
	if err := readMerkleTx(r, &a.CoinbaseTx); err != nil {
		return err
	}

	branch, err := ReadHashArray(r, MaxMerkleBranchHashes, "chain merkle branch")
	if err != nil {
		return truncated("readAuxPow", err)
	}
	a.ChainMerkleBranch = branch

	if err = ReadElement(r, &a.ChainIndex); err != nil {
		return truncated("readAuxPow", err)
	}

	return readPureBlockHeader(r, &a.ParentBlock)
}

func writeAuxPow(w io.Writer, a *AuxPow) error {
	if err := writeMerkleTx(w, &a.CoinbaseTx); err != nil {
		return err
	}
	if err := WriteHashArray(w, a.ChainMerkleBranch); err != nil {
		return err
	}
	if err := WriteElement(w, a.ChainIndex); err != nil {
		return err
	}
	return writePureBlockHeader(w, &a.ParentBlock)
}
