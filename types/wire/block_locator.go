// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"gitlab.com/jaxnet/auxpow/types/chainhash"
)

// BlockLocator describes a position in the chain to a peer, newest hash
// first. If the peer does not share the newest branch it can find a recent
// common ancestor further down the list.
type BlockLocator struct {
	Hashes []chainhash.Hash
}

// NewBlockLocator wraps hashes, newest first.
func NewBlockLocator(hashes []chainhash.Hash) *BlockLocator {
	return &BlockLocator{Hashes: hashes}
}

// SetNull drops all hashes.
func (l *BlockLocator) SetNull() { l.Hashes = nil }

// IsNull reports whether the locator is empty.
func (l *BlockLocator) IsNull() bool { return len(l.Hashes) == 0 }

// Hash returns the identity hash of the locator. The protocol version is
// not part of the preimage.
func (l *BlockLocator) Hash() chainhash.Hash {
	var buf bytes.Buffer
	_ = WriteHashArray(&buf, l.Hashes)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize writes the protocol version followed by the hashes.
func (l *BlockLocator) Serialize(w io.Writer, pver uint32) error {
	if len(l.Hashes) > MaxBlockLocatorsPerMsg {
		return Error("BlockLocator.Serialize", fmt.Sprintf(
			"too many block locator hashes [count %d, max %d]",
			len(l.Hashes), MaxBlockLocatorsPerMsg))
	}
	if err := WriteElement(w, pver); err != nil {
		return err
	}
	return WriteHashArray(w, l.Hashes)
}

// Deserialize reads a locator written by Serialize and returns the
// protocol version it carried.
func (l *BlockLocator) Deserialize(r io.Reader) (uint32, error) {
	var pver uint32
	if err := ReadElement(r, &pver); err != nil {
		return 0, truncated("BlockLocator.Deserialize", err)
	}

	hashes, err := ReadHashArray(r, MaxBlockLocatorsPerMsg, "block locator")
	if err != nil {
		return 0, truncated("BlockLocator.Deserialize", err)
	}
	l.Hashes = hashes
	return pver, nil
}
