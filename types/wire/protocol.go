// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

const (
	// ProtocolVersion is the latest protocol version this package supports.
	// It is written as the leading field of a BlockLocator on the wire.
	ProtocolVersion uint32 = 70015

	// MaxMessagePayload is the maximum bytes a message can be regardless of
	// other individual limits imposed by messages themselves.
	MaxMessagePayload = 1024 * 1024 * 32

	// MaxBlockPayload is the maximum bytes a block message can be.
	MaxBlockPayload = 4000000

	// MaxScriptSize bounds the coinbase script a parent chain may carry.
	MaxScriptSize = 10000

	// MaxMerkleBranchHashes bounds the length of any merkle branch read from
	// the wire. A deeper branch cannot be addressed by a 32-bit index.
	MaxMerkleBranchHashes = 32

	// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
	// allowed per message.
	MaxBlockLocatorsPerMsg = 500

	// minTxPayload is the smallest possible serialized transaction, used
	// to bound the transaction count of a block before allocating.
	minTxPayload = 10
)

// MessageEncoding represents the wire message encoding format to be used.
type MessageEncoding uint32

const (
	// BaseEncoding encodes all messages in the default format specified
	// for the Bitcoin wire protocol.
	BaseEncoding MessageEncoding = 1 << iota

	// WitnessEncoding encodes all messages other than transaction messages
	// using the default Bitcoin wire protocol specification. For transaction
	// messages, the new encoding format detailed in BIP0144 will be used.
	WitnessEncoding
)
