// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"math"
	"time"

	btcchainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// ParentBaseVersion is the version given to parent headers built by
// CreateAuxPow. It carries chain id 0 and no auxpow flag.
const ParentBaseVersion int32 = 1

// ChainMerkleTree aggregates the block hashes of several merge-mined chains.
// Every chain occupies the slot given by ExpectedIndex for the tree nonce.
type ChainMerkleTree struct {
	Commitment MergedMiningCommitment

	slots    map[int32]uint32
	branches map[int32][]chainhash.Hash
}

// BuildChainMerkleTree places each chain hash at its expected slot in a tree
// of 1<<height leaves. Unused slots hold the zero hash. Two chains mapping to
// the same slot is an error; try another nonce or a taller tree.
func BuildChainMerkleTree(nonce uint32, height uint, hashes map[int32]chainhash.Hash) (*ChainMerkleTree, error) {
	if height > MaxChainMerkleBranchLength {
		return nil, errors.Errorf("chain merkle tree height %d exceeds %d",
			height, MaxChainMerkleBranchLength)
	}
	if len(hashes) == 0 {
		return nil, errors.New("chain merkle tree needs at least one chain")
	}

	size := uint32(1) << height
	leaves := make([]chainhash.Hash, size)
	owners := make(map[uint32]int32, len(hashes))
	tree := &ChainMerkleTree{
		slots:    make(map[int32]uint32, len(hashes)),
		branches: make(map[int32][]chainhash.Hash, len(hashes)),
	}

	for chainID, hash := range hashes {
		slot := ExpectedIndex(nonce, chainID, size)
		if other, taken := owners[slot]; taken {
			return nil, errors.Errorf("chains 0x%04x and 0x%04x collide at slot %d (nonce %d)",
				other, chainID, slot, nonce)
		}
		owners[slot] = chainID
		tree.slots[chainID] = slot
		leaves[slot] = hash
	}

	for chainID, slot := range tree.slots {
		branch, err := chainhash.BuildMerkleTreeProof(leaves, slot)
		if err != nil {
			return nil, err
		}
		tree.branches[chainID] = branch
	}

	tree.Commitment = MergedMiningCommitment{
		ChainRoot: chainhash.MerkleTreeRoot(leaves),
		TreeSize:  size,
		Nonce:     nonce,
	}
	return tree, nil
}

// FindChainMerkleNonce returns the first nonce starting at 0 for which all
// chainIDs get distinct slots in a tree of 1<<height leaves.
func FindChainMerkleNonce(height uint, chainIDs []int32, maxTries uint32) (uint32, error) {
	size := uint32(1) << height
	if uint64(len(chainIDs)) > uint64(size) {
		return 0, errors.Errorf("%d chains don't fit into %d slots", len(chainIDs), size)
	}

	for nonce := uint32(0); nonce < maxTries; nonce++ {
		used := make(map[uint32]struct{}, len(chainIDs))
		ok := true
		for _, id := range chainIDs {
			slot := ExpectedIndex(nonce, id, size)
			if _, taken := used[slot]; taken {
				ok = false
				break
			}
			used[slot] = struct{}{}
		}
		if ok {
			return nonce, nil
		}
	}
	return 0, errors.Errorf("no collision free nonce in %d tries", maxTries)
}

// Slot returns the leaf of chainID.
func (t *ChainMerkleTree) Slot(chainID int32) (uint32, bool) {
	slot, ok := t.slots[chainID]
	return slot, ok
}

// Branch returns the chain merkle branch of chainID.
func (t *ChainMerkleTree) Branch(chainID int32) ([]chainhash.Hash, bool) {
	branch, ok := t.branches[chainID]
	return branch, ok
}

// AuxPow assembles the proof of chainID from a parent coinbase already
// carrying the tree commitment and the parent header mined over it.
func (t *ChainMerkleTree) AuxPow(chainID int32, coinbase MerkleTx, parent PureBlockHeader) (*AuxPow, error) {
	slot, ok := t.slots[chainID]
	if !ok {
		return nil, errors.Errorf("chain 0x%04x is not part of the tree", chainID)
	}

	branch := make([]chainhash.Hash, len(t.branches[chainID]))
	copy(branch, t.branches[chainID])

	return &AuxPow{
		CoinbaseTx:        coinbase,
		ChainMerkleBranch: branch,
		ChainIndex:        int32(slot),
		ParentBlock:       parent,
	}, nil
}

// NewParentCoinbase builds a minimal generation transaction whose first
// input script is prefix followed by the commitment.
func NewParentCoinbase(prefix []byte, commitment MergedMiningCommitment) *btcwire.MsgTx {
	script := make([]byte, 0, len(prefix)+len(MergedMiningHeader)+MergedMiningCommitmentSize)
	script = append(script, prefix...)
	script = append(script, commitment.Bytes()...)

	tx := btcwire.NewMsgTx(1)
	tx.AddTxIn(&btcwire.TxIn{
		// Coinbase transactions have no inputs, so previous outpoint is
		// zero hash and max index.
		PreviousOutPoint: *btcwire.NewOutPoint(&btcchainhash.Hash{}, math.MaxUint32),
		SignatureScript:  script,
		Sequence:         btcwire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&btcwire.TxOut{Value: 0, PkScript: []byte{0x51}})
	return tx
}

// CreateAuxPow builds the smallest valid AuxPow committing to header: a
// single chain tree, a parent block holding only the coinbase. The parent
// still has to be mined by the caller.
func CreateAuxPow(header *PureBlockHeader) *AuxPow {
	commitment := MergedMiningCommitment{
		ChainRoot: header.AuxCommitmentHash(),
		TreeSize:  1,
		Nonce:     0,
	}

	coinbase := NewParentCoinbase(nil, commitment)
	ref := NewMerkleTx(coinbase)
	ref.Index = KnownTxIndex(0)
	ref.MerkleBranch = []chainhash.Hash{}

	parent := PureBlockHeader{
		Version:    ParentBaseVersion,
		MerkleRoot: TxHash(coinbase),
		Timestamp:  time.Unix(header.BlockTime(), 0),
		Bits:       header.Bits,
	}

	return &AuxPow{
		CoinbaseTx:        ref,
		ChainMerkleBranch: []chainhash.Hash{},
		ChainIndex:        0,
		ParentBlock:       parent,
	}
}

// InitAuxPow turns header into a merge-mined header. The commitment hash is
// taken before the auxpow flag is set.
func InitAuxPow(header *BlockHeader) error {
	if header.IsAuxpow() {
		return errors.Wrap(ErrStateAssertion, "header is already merge-mined")
	}

	auxPow := CreateAuxPow(&header.PureBlockHeader)
	header.SetAuxPow(auxPow)
	return nil
}

// MineParent increments the parent nonce until accept returns true for the
// parent PoW hash or maxTries is exhausted.
func (a *AuxPow) MineParent(accept func(powHash chainhash.Hash) bool, maxTries uint32) error {
	for i := uint32(0); i < maxTries; i++ {
		if accept(a.ParentBlock.PoWHash()) {
			return nil
		}
		a.ParentBlock.Nonce++
	}
	return errors.Errorf("parent block not solved after %d tries", maxTries)
}
