// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

func TestBlockLocatorRoundTrip(t *testing.T) {
	locator := NewBlockLocator([]chainhash.Hash{{0x03}, {0x02}, {0x01}})
	assert.False(t, locator.IsNull())

	var buf bytes.Buffer
	require.NoError(t, locator.Serialize(&buf, ProtocolVersion))
	raw := buf.Bytes()

	var decoded BlockLocator
	pver, err := decoded.Deserialize(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, ProtocolVersion, pver)
	assert.Equal(t, locator.Hashes, decoded.Hashes)

	// The version prefix is not hashed.
	assert.Equal(t, chainhash.DoubleHashH(raw[4:]), locator.Hash())

	decoded.SetNull()
	assert.True(t, decoded.IsNull())
}

func TestBlockLocatorLimits(t *testing.T) {
	locator := NewBlockLocator(make([]chainhash.Hash, MaxBlockLocatorsPerMsg+1))

	var buf bytes.Buffer
	assert.ErrorIs(t, locator.Serialize(&buf, ProtocolVersion), ErrMalformedEncoding)

	buf.Reset()
	require.NoError(t, WriteElement(&buf, ProtocolVersion))
	require.NoError(t, WriteVarInt(&buf, MaxBlockLocatorsPerMsg+1))

	var decoded BlockLocator
	_, err := decoded.Deserialize(&buf)
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}
