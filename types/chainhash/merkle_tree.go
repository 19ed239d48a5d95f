// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"errors"
	"fmt"
)

// MaxMerkleBranchLength is the deepest branch an index of type uint32 can
// address.
const MaxMerkleBranchLength = 32

var (
	ErrInvalidMerkleIndex = errors.New("merkle index does not fit the branch length")
	ErrEmptyMerkleTree    = errors.New("merkle tree has no leaves")
)

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.  This is a helper
// function used to aid in the generation of a merkle tree.
//
// Inner nodes always hash exactly 64 bytes. Leaves are transaction or block
// identity hashes and are never re-framed before they enter the tree.
func HashMerkleBranches(left *Hash, right *Hash) *Hash {
	var hash [HashSize * 2]byte
	copy(hash[:HashSize], left[:])
	copy(hash[HashSize:], right[:])

	newHash := DoubleHashH(hash[:])
	return &newHash
}

// ComputeMerkleRoot folds leaf up the branch. At step i the bit i of index
// tells whether the accumulated hash is the right (1) or the left (0) child.
// An index with set bits beyond the branch length is rejected instead of
// being truncated.
func ComputeMerkleRoot(leaf Hash, branch []Hash, index uint32) (Hash, error) {
	if len(branch) < MaxMerkleBranchLength && index>>uint(len(branch)) != 0 {
		return Hash{}, fmt.Errorf("%w: index %d, branch length %d",
			ErrInvalidMerkleIndex, index, len(branch))
	}

	hash := leaf
	for i := range branch {
		if index&1 == 1 {
			hash = *HashMerkleBranches(&branch[i], &hash)
		} else {
			hash = *HashMerkleBranches(&hash, &branch[i])
		}
		index >>= 1
	}

	return hash, nil
}

// VerifyMerkleProof recomputes the root for leaf at index and compares it
// with root.
func VerifyMerkleProof(leaf Hash, branch []Hash, index uint32, root Hash) bool {
	computed, err := ComputeMerkleRoot(leaf, branch, index)
	if err != nil {
		return false
	}
	return computed == root
}

// MerkleRoot computes the root of the tree over leaves. Odd levels duplicate
// their last element. mutated is set when a level contains two identical
// adjacent nodes, which means another list of leaves produces the same root.
func MerkleRoot(leaves []Hash) (root Hash, mutated bool) {
	if len(leaves) == 0 {
		return Hash{}, false
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		for pos := 0; pos+1 < len(level); pos += 2 {
			if level[pos] == level[pos+1] {
				mutated = true
			}
		}

		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([]Hash, len(level)/2)
		for i := range next {
			next[i] = *HashMerkleBranches(&level[2*i], &level[2*i+1])
		}
		level = next
	}

	return level[0], mutated
}

// MerkleTreeRoot returns the root of the tree over leaves ignoring the
// mutation flag.
func MerkleTreeRoot(leaves []Hash) Hash {
	root, _ := MerkleRoot(leaves)
	return root
}

// BuildMerkleTreeProof returns the branch proving membership of the leaf at
// index. The result folds back to MerkleTreeRoot(leaves) via ComputeMerkleRoot.
func BuildMerkleTreeProof(leaves []Hash, index uint32) ([]Hash, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyMerkleTree
	}
	if uint64(index) >= uint64(len(leaves)) {
		return nil, fmt.Errorf("%w: index %d, leaves %d", ErrInvalidMerkleIndex, index, len(leaves))
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)

	branch := make([]Hash, 0)
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		branch = append(branch, level[index^1])

		next := make([]Hash, len(level)/2)
		for i := range next {
			next[i] = *HashMerkleBranches(&level[2*i], &level[2*i+1])
		}
		level = next
		index >>= 1
	}

	return branch, nil
}

// BuildCoinbaseMerkleTreeProof returns the branch of the first leaf, which
// is the coinbase transaction in a block.
func BuildCoinbaseMerkleTreeProof(leaves []Hash) []Hash {
	branch, err := BuildMerkleTreeProof(leaves, 0)
	if err != nil {
		return []Hash{}
	}
	return branch
}

// ValidateCoinbaseMerkleTreeProof checks that coinbaseHash is the first leaf
// of the tree with the given root.
func ValidateCoinbaseMerkleTreeProof(coinbaseHash Hash, proof []Hash, root Hash) bool {
	return VerifyMerkleProof(coinbaseHash, proof, 0, root)
}
