// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"golang.org/x/crypto/scrypt"
)

const (
	// VersionAuxpow is the version bit announcing that an AuxPow follows
	// the header on the wire.
	VersionAuxpow int32 = 1 << 8

	// VersionChainStart is the multiplier placing the chain id into the
	// upper 16 bits of the version.
	VersionChainStart int32 = 1 << 16

	// MinAuxpowBaseVersion is the lowest base version a header may have to
	// be interpreted as a merge-mining capable header.
	MinAuxpowBaseVersion int32 = 4

	// AuxpowChainID is the merge-mining chain id registered for this chain.
	// It matches the legacy block version 0x20000000.
	AuxpowChainID int32 = 0x205d

	// AuxpowStartHeight is the first height at which merge-mined headers
	// are accepted on the main network.
	AuxpowStartHeight int32 = 3450000

	// PureBlockHeaderSize is the number of bytes of the fixed header.
	// Version 4 bytes + PrevBlock 32 bytes + MerkleRoot 32 bytes +
	// Timestamp 4 bytes + Bits 4 bytes + Nonce 4 bytes.
	PureBlockHeaderSize = 16 + (chainhash.HashSize * 2)

	baseVersionMask = VersionAuxpow - 1
	chainIDShift    = 16
)

// MergedMiningHeader is the tag preceding the chain merkle root inside a
// parent coinbase script.
var MergedMiningHeader = [4]byte{0xfa, 0xbe, 'm', 'm'}

// PureBlockHeader is the fixed 80 byte part of a block header. It carries
// the block identity; the auxpow payload never takes part in any hash.
//
// The zero value is the null header.
type PureBlockHeader struct {
	// Version is bit packed: bits 0..7 hold the base version, bit 8 the
	// auxpow flag and bits 16..31 the chain id.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// NewPureBlockHeader returns a new PureBlockHeader using the provided
// version, previous block hash, merkle root hash, difficulty bits, and nonce
// with the timestamp truncated to one second.
func NewPureBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *PureBlockHeader {
	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &PureBlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// SetNull resets the header to the null state.
func (h *PureBlockHeader) SetNull() { *h = PureBlockHeader{} }

// IsNull reports whether the header is unset. Only Bits is consulted.
func (h *PureBlockHeader) IsNull() bool { return h.Bits == 0 }

// BlockTime returns the header timestamp in seconds. An unset timestamp is 0.
func (h *PureBlockHeader) BlockTime() int64 {
	if h.Timestamp.IsZero() {
		return 0
	}
	return h.Timestamp.Unix()
}

// BaseVersionOf extracts the base version from a packed version value.
func BaseVersionOf(version int32) int32 { return version & baseVersionMask }

// ChainIDOf extracts the chain id from a packed version value.
func ChainIDOf(version int32) int32 { return version >> chainIDShift }

// BaseVersion returns the semantic version of the chain, bits 0..7.
func (h *PureBlockHeader) BaseVersion() int32 { return BaseVersionOf(h.Version) }

// SetBaseVersion assigns base version and chain id at once. It must be
// called before the header is marked as merge-mined.
func (h *PureBlockHeader) SetBaseVersion(baseVersion, chainID int32) error {
	if baseVersion < 1 || baseVersion >= VersionAuxpow {
		return errors.Wrapf(ErrStateAssertion, "base version %d is out of range [1, %d)",
			baseVersion, VersionAuxpow)
	}
	if h.IsAuxpow() {
		return errors.Wrap(ErrStateAssertion, "base version can't change after the auxpow flag is set")
	}

	h.Version = baseVersion | (chainID << chainIDShift)
	return nil
}

// ChainID returns the origin chain identifier, bits 16..31.
func (h *PureBlockHeader) ChainID() int32 { return ChainIDOf(h.Version) }

// SetChainID replaces the chain id keeping the base version and the flag.
func (h *PureBlockHeader) SetChainID(chainID int32) {
	h.Version = h.Version&(VersionChainStart-1) | chainID<<chainIDShift
}

// IsAuxpow reports whether the auxpow flag is set.
func (h *PureBlockHeader) IsAuxpow() bool { return h.Version&VersionAuxpow != 0 }

// SetAuxpowFlag sets or clears the auxpow flag.
func (h *PureBlockHeader) SetAuxpowFlag(auxpow bool) {
	if auxpow {
		h.Version |= VersionAuxpow
	} else {
		h.Version &^= VersionAuxpow
	}
}

// IsLegacy reports whether the header is exempt from auxpow interpretation:
// its base version predates merge mining or it belongs to a foreign chain id.
func (h *PureBlockHeader) IsLegacy() bool {
	return h.IsLegacyFor(AuxpowChainID)
}

// IsLegacyFor is IsLegacy against an explicitly registered chain id.
func (h *PureBlockHeader) IsLegacyFor(chainID int32) bool {
	return h.BaseVersion() < MinAuxpowBaseVersion || h.ChainID() != chainID
}

// BlockHash computes the block identifier hash for the given block header.
func (h *PureBlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashH(h.Bytes())
}

// AuxCommitmentHash is the hash a merge miner commits to in the parent
// coinbase. It equals BlockHash of the same header with the auxpow flag
// cleared, so it can be taken before the flag is set.
func (h *PureBlockHeader) AuxCommitmentHash() chainhash.Hash {
	clone := *h
	clone.SetAuxpowFlag(false)
	return clone.BlockHash()
}

// PoWHash computes the scrypt(1024, 1, 1) hash of the header used only for
// the proof-of-work target comparison.
func (h *PureBlockHeader) PoWHash() chainhash.Hash {
	data := h.Bytes()
	key, err := scrypt.Key(data, data, 1024, 1, 1, chainhash.HashSize)
	if err != nil {
		// Parameters are constant and valid.
		panic(fmt.Sprintf("scrypt: %v", err))
	}

	var hash chainhash.Hash
	copy(hash[:], key)
	return hash
}

// Bytes returns the 80 byte serialization of the header.
func (h *PureBlockHeader) Bytes() []byte {
	// Ignore the error return since there is no way the encode could fail
	// except being out of memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, PureBlockHeaderSize))
	_ = writePureBlockHeader(buf, h)
	return buf.Bytes()
}

// Deserialize decodes a header from r into the receiver.
func (h *PureBlockHeader) Deserialize(r io.Reader) error {
	return readPureBlockHeader(r, h)
}

// Serialize encodes the header into w.
func (h *PureBlockHeader) Serialize(w io.Writer) error {
	return writePureBlockHeader(w, h)
}

// String returns a one line description of the header.
func (h *PureBlockHeader) String() string {
	return fmt.Sprintf("PureBlockHeader(hash=%s, ver=0x%08x, prevBlock=%s, merkleRoot=%s, "+
		"time=%d, bits=%08x, nonce=%d)", h.BlockHash(), uint32(h.Version), h.PrevBlock,
		h.MerkleRoot, h.BlockTime(), h.Bits, h.Nonce)
}

// readPureBlockHeader reads the fixed header from r.
func readPureBlockHeader(r io.Reader, bh *PureBlockHeader) error {
	err := ReadElements(r, &bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		(*Uint32Time)(&bh.Timestamp), &bh.Bits, &bh.Nonce)
	return truncated("readPureBlockHeader", err)
}

// writePureBlockHeader writes the fixed header to w.
func writePureBlockHeader(w io.Writer, bh *PureBlockHeader) error {
	sec := uint32(bh.BlockTime())
	return WriteElements(w, bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		sec, bh.Bits, bh.Nonce)
}
