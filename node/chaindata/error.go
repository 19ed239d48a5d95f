// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the expected value either because it doesn't match the calculated
	// valued based on difficulty regarted rules or it is out of the valid
	// range.
	ErrUnexpectedDifficulty ErrorCode = iota

	// ErrHighHash indicates the block does not hash to a value which is
	// lower than the required target difficultly.
	ErrHighHash

	// ErrInvalidTime indicates the time in the passed block has a precision
	// that is more than one second.  The chain consensus rules require
	// timestamps to have a maximum precision of one second.
	ErrInvalidTime

	// ErrTimeTooNew indicates the time is too far in the future as compared
	// the current time.
	ErrTimeTooNew

	// ErrNoTransactions indicates the block does not have a least one
	// transaction.  A valid block must have at least the coinbase
	// transaction.
	ErrNoTransactions

	// ErrBlockTooBig indicates the serialized block size exceeds the
	// maximum allowed size.
	ErrBlockTooBig

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// is not a coinbase transaction.
	ErrFirstTxNotCoinbase

	// ErrMultipleCoinbases indicates a block contains more than one
	// coinbase transaction.
	ErrMultipleCoinbases

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value.
	ErrBadMerkleRoot

	// ErrDuplicateTx indicates a block contains an identical transaction
	// (or at least two transactions which hash to the same value), or a
	// transaction list another list hashes to the same merkle root as.
	ErrDuplicateTx

	// ErrAuxPowFlagMismatch indicates the auxpow version flag and the
	// presence of an auxpow payload disagree.
	ErrAuxPowFlagMismatch

	// ErrLegacyAuxPow indicates a legacy header carries an auxpow.
	ErrLegacyAuxPow

	// ErrAuxPowNotActive indicates a merge-mined header below the auxpow
	// activation height.
	ErrAuxPowNotActive

	// ErrWrongChainID indicates a header carrying a foreign chain id on a
	// network that enforces its own.
	ErrWrongChainID

	// ErrBadAuxPow indicates an auxpow that does not commit to its header.
	ErrBadAuxPow
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnexpectedDifficulty: "ErrUnexpectedDifficulty",
	ErrHighHash:             "ErrHighHash",
	ErrInvalidTime:          "ErrInvalidTime",
	ErrTimeTooNew:           "ErrTimeTooNew",
	ErrNoTransactions:       "ErrNoTransactions",
	ErrBlockTooBig:          "ErrBlockTooBig",
	ErrFirstTxNotCoinbase:   "ErrFirstTxNotCoinbase",
	ErrMultipleCoinbases:    "ErrMultipleCoinbases",
	ErrBadMerkleRoot:        "ErrBadMerkleRoot",
	ErrDuplicateTx:          "ErrDuplicateTx",
	ErrAuxPowFlagMismatch:   "ErrAuxPowFlagMismatch",
	ErrLegacyAuxPow:         "ErrLegacyAuxPow",
	ErrAuxPowNotActive:      "ErrAuxPowNotActive",
	ErrWrongChainID:         "ErrWrongChainID",
	ErrBadAuxPow:            "ErrBadAuxPow",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block or header failed due to one of the many validation
// rules.  The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue

	// Err is the lower level failure, if any.
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the lower level failure.
func (e RuleError) Unwrap() error { return e.Err }

// NewRuleError creates a RuleError given a set of arguments.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

func wrapRuleError(c ErrorCode, err error, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc + ": " + err.Error(), Err: err}
}

// IsErrorCode reports whether err is a RuleError with the given code.
func IsErrorCode(err error, c ErrorCode) bool {
	var rerr RuleError
	return errors.As(err, &rerr) && rerr.ErrorCode == c
}
