// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020-2021 The JAX.Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"gitlab.com/jaxnet/auxpow/types/wire"
)

var (
	// testNetPowLimit is the highest proof of work value a block can have
	// for the test network. It is the value 2^240 - 1.
	testNetPowLimit            = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 240), bigOne)
	testNetPowLimitBits uint32 = 0x1f00ffff

	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network. It is the value 2^255 - 1.
	regressionPowLimit            = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
	regressionPowLimitBits uint32 = 0x207fffff
)

// TestNetParams defines the network parameters for the public test network.
// Merge mining is active from the genesis and foreign chain ids are
// tolerated.
var TestNetParams = Params{
	Name:              TestNet,
	AuxpowChainID:     wire.AuxpowChainID,
	AuxpowStartHeight: 0,
	StrictChainID:     false,

	PowLimit:      testNetPowLimit,
	PowLimitBits:  testNetPowLimitBits,
	MaxTimeOffset: 2 * time.Hour,

	GenesisOpts: GenesisBlockOpts{
		Version:   1,
		Timestamp: time.Unix(1633687865, 0), // Fri  8 Oct 10:11:05 UTC 2021
		Bits:      testNetPowLimitBits,
		Nonce:     0x18aea41a,
	},
}

// RegressionNetParams defines the network parameters for the regression
// test network. Not to be confused with the test network, it is intended
// for local runs where blocks are mined on demand.
var RegressionNetParams = Params{
	Name:              RegTest,
	AuxpowChainID:     wire.AuxpowChainID,
	AuxpowStartHeight: 0,
	StrictChainID:     true,

	PowLimit:      regressionPowLimit,
	PowLimitBits:  regressionPowLimitBits,
	MaxTimeOffset: 2 * time.Hour,

	GenesisOpts: GenesisBlockOpts{
		Version:   1,
		Timestamp: time.Unix(1633687865, 0), // Fri  8 Oct 10:11:05 UTC 2021
		Bits:      regressionPowLimitBits,
		Nonce:     2,
	},
}
