// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
	"gitlab.com/jaxnet/auxpow/types/wire"
)

// bigOne is 1 represented as a big.Int.  It is defined here to avoid
// the overhead of creating it multiple times.
var bigOne = big.NewInt(1)

// NetName identifies a network.
type NetName string

const (
	MainNet NetName = "mainnet"
	TestNet NetName = "testnet"
	RegTest NetName = "regtest"
)

func (n NetName) String() string { return string(n) }

// ErrUnknownNet is returned by ParamsFor for a name with no registered
// parameters.
var ErrUnknownNet = errors.New("unknown network")

// GenesisBlockOpts holds the header fields of a genesis block.
type GenesisBlockOpts struct {
	Version   int32
	Timestamp time.Time
	Bits      uint32
	Nonce     uint32
}

// Params defines a network by its merge-mining registration and proof of
// work limits.
type Params struct {
	Name NetName

	// AuxpowChainID is the chain id merge-mined headers of this network
	// carry in the upper version bits.
	AuxpowChainID int32

	// AuxpowStartHeight is the first height accepting merge-mined headers.
	AuxpowStartHeight int32

	// StrictChainID rejects non-legacy headers carrying a foreign chain id.
	StrictChainID bool

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// MaxTimeOffset bounds how far a header timestamp may run ahead of the
	// local clock.
	MaxTimeOffset time.Duration

	GenesisOpts GenesisBlockOpts
}

// MergedMiningHeader returns the tag a parent coinbase script carries in
// front of the chain merkle root.
func (p *Params) MergedMiningHeader() [4]byte { return wire.MergedMiningHeader }

// IsAuxpowActive reports whether merge-mined headers are accepted at height.
func (p *Params) IsAuxpowActive(height int32) bool { return height >= p.AuxpowStartHeight }

// GenesisBlock returns the first block of the network.
func (p *Params) GenesisBlock() *wire.MsgBlock { return genesisBlock(p) }

// GenesisHash returns the hash of the first block of the network.
func (p *Params) GenesisHash() chainhash.Hash { return genesisHash(p) }

// ParamsFor returns the parameters registered under name.
func ParamsFor(name NetName) (*Params, error) {
	switch name {
	case MainNet:
		return &MainNetParams, nil
	case TestNet:
		return &TestNetParams, nil
	case RegTest:
		return &RegressionNetParams, nil
	default:
		return nil, errors.Wrapf(ErrUnknownNet, "%q", string(name))
	}
}
