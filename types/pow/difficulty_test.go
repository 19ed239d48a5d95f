// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

func TestCompactRoundTrip(t *testing.T) {
	tests := []struct {
		compact uint32
		want    int64
	}{
		{compact: 0, want: 0},
		{compact: 0x01003456, want: 0},
		{compact: 0x02008000, want: 0x80},
		{compact: 0x04123456, want: 0x12345600},
		{compact: 0x05009234, want: 0x92340000},
	}
	for _, tt := range tests {
		n := CompactToBig(tt.compact)
		assert.Equal(t, big.NewInt(tt.want), n, "compact %08x", tt.compact)
	}

	for _, compact := range []uint32{0x1d00ffff, 0x1e0ffff0, 0x207fffff, 0x04123456} {
		assert.Equal(t, compact, BigToCompact(CompactToBig(compact)), "compact %08x", compact)
	}
}

func TestHashToBig(t *testing.T) {
	var h chainhash.Hash
	h[0] = 0x01
	assert.Equal(t, big.NewInt(1), HashToBig(&h))
	assert.Equal(t, byte(0x01), h[0], "input must not be modified")

	h = chainhash.Hash{}
	h[31] = 0x01
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1), 248), HashToBig(&h))
}

func TestCalcWork(t *testing.T) {
	assert.Equal(t, big.NewInt(0), CalcWork(0))
	assert.Equal(t, 1, CalcWork(0x1d00ffff).Cmp(CalcWork(0x207fffff)),
		"a lower target means more work")
}
