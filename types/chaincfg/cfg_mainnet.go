// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020 The JAX.Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"gitlab.com/jaxnet/auxpow/types/wire"
)

var (
	// mainNetPowLimit is the highest proof of work value a block can have
	// for the main network. It is the value 2^236 - 1.
	mainNetPowLimit            = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)
	mainNetPowLimitBits uint32 = 0x1e0fffff
)

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:              MainNet,
	AuxpowChainID:     wire.AuxpowChainID,
	AuxpowStartHeight: wire.AuxpowStartHeight,
	StrictChainID:     true,

	PowLimit:      mainNetPowLimit,
	PowLimitBits:  mainNetPowLimitBits,
	MaxTimeOffset: 2 * time.Hour,

	GenesisOpts: GenesisBlockOpts{
		Version:   1,
		Timestamp: time.Unix(1633687865, 0), // Fri  8 Oct 10:11:05 UTC 2021
		Bits:      mainNetPowLimitBits,
		Nonce:     0x7c2bac1d,
	},
}
