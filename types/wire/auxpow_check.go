// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

const (
	// MergedMiningCommitmentSize is the payload following the tag:
	// chain merkle root 32 bytes + tree size 4 bytes + nonce 4 bytes.
	MergedMiningCommitmentSize = chainhash.HashSize + 8

	lcgMultiplier uint32 = 1103515245
	lcgIncrement  uint32 = 12345
)

// MergedMiningCommitment is the data a parent coinbase script carries right
// after MergedMiningHeader.
type MergedMiningCommitment struct {
	// ChainRoot is the root of the chain merkle tree. It is stored in the
	// script in display (byte-reversed) order.
	ChainRoot chainhash.Hash

	// TreeSize is the number of leaves of the chain merkle tree.
	TreeSize uint32

	// Nonce seeds the slot assignment of every chain in the tree.
	Nonce uint32
}

// Bytes returns the tag followed by the encoded commitment.
func (c *MergedMiningCommitment) Bytes() []byte {
	buf := make([]byte, 0, len(MergedMiningHeader)+MergedMiningCommitmentSize)
	buf = append(buf, MergedMiningHeader[:]...)
	buf = append(buf, c.ChainRoot.Reversed()...)

	var fields [8]byte
	binary.LittleEndian.PutUint32(fields[:4], c.TreeSize)
	binary.LittleEndian.PutUint32(fields[4:], c.Nonce)
	return append(buf, fields[:]...)
}

// ParseMergedMiningCommitment scans a coinbase script for the merge-mining
// tag and decodes the commitment following it. The tag must occur exactly
// once.
func ParseMergedMiningCommitment(script []byte) (MergedMiningCommitment, error) {
	var c MergedMiningCommitment

	pos := bytes.Index(script, MergedMiningHeader[:])
	if pos < 0 {
		return c, auxPowError(ErrMissingMergedMiningHeader,
			"merged mining header not found in coinbase script")
	}
	if bytes.Contains(script[pos+1:], MergedMiningHeader[:]) {
		return c, auxPowError(ErrMultipleMergedMiningHeaders,
			"multiple merged mining headers in coinbase script")
	}

	payload := script[pos+len(MergedMiningHeader):]
	if len(payload) < MergedMiningCommitmentSize {
		return c, auxPowError(ErrTruncatedCommitment, fmt.Sprintf(
			"coinbase script ends %d bytes after the merged mining header, want %d",
			len(payload), MergedMiningCommitmentSize))
	}

	for i := 0; i < chainhash.HashSize; i++ {
		c.ChainRoot[i] = payload[chainhash.HashSize-1-i]
	}
	c.TreeSize = binary.LittleEndian.Uint32(payload[chainhash.HashSize:])
	c.Nonce = binary.LittleEndian.Uint32(payload[chainhash.HashSize+4:])
	return c, nil
}

// ExpectedIndex derives the chain merkle tree slot of chainID from the
// commitment nonce. Arithmetic wraps at 32 bits.
func ExpectedIndex(nonce uint32, chainID int32, treeSize uint32) uint32 {
	if treeSize == 0 {
		return 0
	}

	rand := nonce
	rand = rand*lcgMultiplier + lcgIncrement
	rand += uint32(chainID)
	rand = rand*lcgMultiplier + lcgIncrement

	return rand % treeSize
}

// Check verifies that the AuxPow commits to hashAuxBlock for chainID and
// that the commitment is part of ParentBlock. It has no side effects; a nil
// result is the only success. Failures are AuxPowError values, or a
// MessageError when the proof is structurally malformed.
func (a *AuxPow) Check(hashAuxBlock chainhash.Hash, chainID int32) error {
	parent := &a.ParentBlock
	if parent.IsAuxpow() && parent.ChainID() == chainID {
		return auxPowError(ErrParentIsOwnAuxPow,
			"aux pow parent is merge-mined for our chain")
	}
	if parent.ChainID() == chainID {
		return auxPowError(ErrParentHasOwnChainID, fmt.Sprintf(
			"aux pow parent has our chain id 0x%04x", chainID))
	}

	if pos, ok := a.CoinbaseTx.Index.Get(); !ok || pos != 0 {
		return auxPowError(ErrCoinbaseNotGenerate, fmt.Sprintf(
			"aux pow coinbase is at index %s, want 0", a.CoinbaseTx.Index))
	}
	coinbase := a.CoinbaseTx.Tx
	if coinbase == nil || len(coinbase.TxIn) == 0 {
		return auxPowError(ErrCoinbaseNotGenerate, "aux pow coinbase has no inputs")
	}

	if len(a.ChainMerkleBranch) > MaxChainMerkleBranchLength {
		return auxPowError(ErrChainBranchTooLong, fmt.Sprintf(
			"aux pow chain merkle branch is too long: %d, max %d",
			len(a.ChainMerkleBranch), MaxChainMerkleBranchLength))
	}

	commitment, err := ParseMergedMiningCommitment(coinbase.TxIn[0].SignatureScript)
	if err != nil {
		return err
	}

	if commitment.TreeSize != uint32(1)<<uint(len(a.ChainMerkleBranch)) {
		return auxPowError(ErrTreeSizeMismatch, fmt.Sprintf(
			"committed tree size %d does not match branch length %d",
			commitment.TreeSize, len(a.ChainMerkleBranch)))
	}

	if a.ChainIndex < 0 {
		return Error("AuxPow.Check", fmt.Sprintf("negative chain index %d", a.ChainIndex))
	}
	chainRoot, err := chainhash.ComputeMerkleRoot(hashAuxBlock, a.ChainMerkleBranch, uint32(a.ChainIndex))
	if err != nil {
		return Error("AuxPow.Check", err.Error())
	}
	if chainRoot != commitment.ChainRoot {
		return auxPowError(ErrChainRootMismatch, fmt.Sprintf(
			"chain merkle root %s does not match committed root %s",
			chainRoot, commitment.ChainRoot))
	}

	expected := ExpectedIndex(commitment.Nonce, chainID, commitment.TreeSize)
	if uint32(a.ChainIndex) != expected {
		return auxPowError(ErrWrongChainIndex, fmt.Sprintf(
			"aux pow chain index %d, expected %d", a.ChainIndex, expected))
	}

	if !chainhash.VerifyMerkleProof(a.CoinbaseTx.TxHash(), a.CoinbaseTx.MerkleBranch,
		0, parent.MerkleRoot) {
		return auxPowError(ErrCoinbaseNotInParent,
			"aux pow coinbase merkle branch does not match parent merkle root")
	}

	return nil
}
