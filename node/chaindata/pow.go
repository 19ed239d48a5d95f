// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"fmt"
	"math/big"

	"gitlab.com/jaxnet/auxpow/types/chaincfg"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/pow"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// PowChecker compares a proof-of-work hash against the target encoded in
// bits.
type PowChecker interface {
	CheckProofOfWork(powHash chainhash.Hash, bits uint32) error
}

// PowCheckerFunc adapts a plain function to PowChecker.
type PowCheckerFunc func(powHash chainhash.Hash, bits uint32) error

// CheckProofOfWork calls f(powHash, bits).
func (f PowCheckerFunc) CheckProofOfWork(powHash chainhash.Hash, bits uint32) error {
	return f(powHash, bits)
}

// TargetChecker is the PowChecker of a network: the target must be positive
// and not above PowLimit, the hash not above the target.
type TargetChecker struct {
	PowLimit *big.Int
}

// NewTargetChecker returns the checker for the network params.
func NewTargetChecker(params *chaincfg.Params) TargetChecker {
	return TargetChecker{PowLimit: params.PowLimit}
}

// CheckProofOfWork ensures the bits are in min/max range and that powHash
// is less than the target difficulty as claimed.
func (c TargetChecker) CheckProofOfWork(powHash chainhash.Hash, bits uint32) error {
	// The target difficulty must be larger than zero.
	target := pow.CompactToBig(bits)
	if target.Sign() <= 0 {
		str := fmt.Sprintf("block target difficulty of %064x is too low", target)
		return NewRuleError(ErrUnexpectedDifficulty, str)
	}

	// The target difficulty must be less than the maximum allowed.
	if target.Cmp(c.PowLimit) > 0 {
		str := fmt.Sprintf("block target difficulty of %064x is higher than max of %064x",
			target, c.PowLimit)
		return NewRuleError(ErrUnexpectedDifficulty, str)
	}

	hashNum := pow.HashToBig(&powHash)
	if hashNum.Cmp(target) > 0 {
		str := fmt.Sprintf("block hash of %064x is higher than expected max of %064x", hashNum, target)
		return NewRuleError(ErrHighHash, str)
	}
	return nil
}

// CheckAuxPowProofOfWork checks the proof-of-work of a header at height.
// A plain header is checked with its own PoW hash. A merge-mined header must
// be past the activation height, its auxpow must commit to it and the
// parent PoW hash must meet the header bits.
func CheckAuxPowProofOfWork(header *wire.BlockHeader, height int32, params *chaincfg.Params, checker PowChecker) error {
	auxPow := header.AuxPow()
	if header.IsAuxpow() != (auxPow != nil) {
		str := fmt.Sprintf("auxpow flag is %v on a %s header", header.IsAuxpow(), header.Kind())
		return NewRuleError(ErrAuxPowFlagMismatch, str)
	}

	if params.StrictChainID && header.BaseVersion() >= wire.MinAuxpowBaseVersion &&
		header.ChainID() != params.AuxpowChainID {
		str := fmt.Sprintf("block chain id 0x%04x, expected 0x%04x", header.ChainID(), params.AuxpowChainID)
		return NewRuleError(ErrWrongChainID, str)
	}

	if auxPow == nil {
		return checker.CheckProofOfWork(header.PoWHash(), header.Bits)
	}

	if header.IsLegacyFor(params.AuxpowChainID) {
		str := fmt.Sprintf("legacy header version 0x%08x carries an auxpow", uint32(header.Version))
		return NewRuleError(ErrLegacyAuxPow, str)
	}

	if !params.IsAuxpowActive(height) {
		str := fmt.Sprintf("auxpow at height %d before activation at %d", height, params.AuxpowStartHeight)
		return NewRuleError(ErrAuxPowNotActive, str)
	}

	if err := auxPow.Check(header.AuxCommitmentHash(), params.AuxpowChainID); err != nil {
		return wrapRuleError(ErrBadAuxPow, err, "auxpow check failed")
	}

	return checker.CheckProofOfWork(auxPow.ParentPoWHash(), header.Bits)
}
