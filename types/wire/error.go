// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error categories. Every error produced by this package can be matched
// against exactly one of them with errors.Is.
var (
	// ErrMalformedEncoding marks truncated or oversized fields and
	// structurally inconsistent data. It is fatal for the message being
	// parsed.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrInvalidCommitment marks an AuxPow that does not commit to the
	// claimed block. The header carrying it is rejected outright.
	ErrInvalidCommitment = errors.New("invalid auxpow commitment")

	// ErrStateAssertion marks a misuse of the header mutators, for example
	// changing the base version after the auxpow flag was set.
	ErrStateAssertion = errors.New("header state assertion")
)

const errNonCanonicalVarInt = "non-canonical varint %x - discriminant %x must " +
	"encode a value greater than %x"

// MessageError describes an issue with a message.
// An example of some potential issues are messages from the wrong bitcoin
// network, invalid commands, mismatched checksums, and exceeding max payloads.
//
// This provides a mechanism for the caller to type assert the error to
// differentiate between general io errors such as io.EOF and issues that
// resulted from malformed messages.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%v: %v", e.Func, e.Description)
	}
	return e.Description
}

// Unwrap ties every message error to ErrMalformedEncoding.
func (e *MessageError) Unwrap() error { return ErrMalformedEncoding }

// Error creates an error for the given function and description.
func Error(f string, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

// AuxPowErrorCode identifies a kind of auxpow commitment failure.
type AuxPowErrorCode int

const (
	// ErrParentIsOwnAuxPow indicates the parent header is itself tagged as
	// a merge-mined header of the chain being validated.
	ErrParentIsOwnAuxPow AuxPowErrorCode = iota

	// ErrParentHasOwnChainID indicates the parent header carries the chain
	// id of the chain being validated.
	ErrParentHasOwnChainID

	// ErrCoinbaseNotGenerate indicates the parent coinbase is not the first
	// transaction of the parent block or has no inputs.
	ErrCoinbaseNotGenerate

	// ErrChainBranchTooLong indicates the chain merkle branch is deeper
	// than MaxChainMerkleBranchLength.
	ErrChainBranchTooLong

	// ErrMissingMergedMiningHeader indicates the coinbase script does not
	// carry the merge-mining tag.
	ErrMissingMergedMiningHeader

	// ErrMultipleMergedMiningHeaders indicates the tag occurs more than once.
	ErrMultipleMergedMiningHeaders

	// ErrTruncatedCommitment indicates the script ends before the root, the
	// tree size and the nonce following the tag.
	ErrTruncatedCommitment

	// ErrTreeSizeMismatch indicates the committed tree size does not match
	// the chain merkle branch length.
	ErrTreeSizeMismatch

	// ErrChainRootMismatch indicates the chain merkle root recomputed from
	// the aux block hash differs from the committed one.
	ErrChainRootMismatch

	// ErrWrongChainIndex indicates the claimed chain index differs from the
	// slot derived from nonce, chain id and tree size.
	ErrWrongChainIndex

	// ErrCoinbaseNotInParent indicates the coinbase merkle branch does not
	// lead to the parent block merkle root.
	ErrCoinbaseNotInParent
)

var auxPowErrorCodeStrings = map[AuxPowErrorCode]string{
	ErrParentIsOwnAuxPow:           "ErrParentIsOwnAuxPow",
	ErrParentHasOwnChainID:         "ErrParentHasOwnChainID",
	ErrCoinbaseNotGenerate:         "ErrCoinbaseNotGenerate",
	ErrChainBranchTooLong:          "ErrChainBranchTooLong",
	ErrMissingMergedMiningHeader:   "ErrMissingMergedMiningHeader",
	ErrMultipleMergedMiningHeaders: "ErrMultipleMergedMiningHeaders",
	ErrTruncatedCommitment:         "ErrTruncatedCommitment",
	ErrTreeSizeMismatch:            "ErrTreeSizeMismatch",
	ErrChainRootMismatch:           "ErrChainRootMismatch",
	ErrWrongChainIndex:             "ErrWrongChainIndex",
	ErrCoinbaseNotInParent:         "ErrCoinbaseNotInParent",
}

// String returns the AuxPowErrorCode as a human-readable name.
func (e AuxPowErrorCode) String() string {
	if s := auxPowErrorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown AuxPowErrorCode (%d)", int(e))
}

// AuxPowError identifies a failed step of the auxpow check.
type AuxPowError struct {
	Code        AuxPowErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e AuxPowError) Error() string {
	return e.Description
}

// Unwrap ties every auxpow error to ErrInvalidCommitment.
func (e AuxPowError) Unwrap() error { return ErrInvalidCommitment }

func auxPowError(c AuxPowErrorCode, desc string) AuxPowError {
	return AuxPowError{Code: c, Description: desc}
}

// IsAuxPowErrorCode reports whether err is an AuxPowError with the given code.
func IsAuxPowErrorCode(err error, c AuxPowErrorCode) bool {
	var aerr AuxPowError
	return errors.As(err, &aerr) && aerr.Code == c
}
