// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
)

// HeaderKind tells whether a header is plain or carries an AuxPow.
type HeaderKind uint8

const (
	// PlainHeader is proven by its own proof-of-work.
	PlainHeader HeaderKind = iota

	// MergeMinedHeader is proven by the proof-of-work of a parent chain.
	MergeMinedHeader
)

func (k HeaderKind) String() string {
	switch k {
	case PlainHeader:
		return "plain"
	case MergeMinedHeader:
		return "merge-mined"
	default:
		return fmt.Sprintf("HeaderKind(%d)", uint8(k))
	}
}

// BlockHeader is a PureBlockHeader optionally extended by an AuxPow. The
// AuxPow is present exactly when the auxpow version flag is set; SetAuxPow
// keeps both in sync and the encoder refuses headers where they disagree.
type BlockHeader struct {
	PureBlockHeader

	auxPow *AuxPow
}

// NewBlockHeader wraps a pure header as a plain block header.
func NewBlockHeader(pure PureBlockHeader) *BlockHeader {
	return &BlockHeader{PureBlockHeader: pure}
}

// Kind returns the variant of the header.
func (h *BlockHeader) Kind() HeaderKind {
	if h.auxPow != nil {
		return MergeMinedHeader
	}
	return PlainHeader
}

// AuxPow returns the attached proof, nil for plain headers.
func (h *BlockHeader) AuxPow() *AuxPow { return h.auxPow }

// SetAuxPow attaches a proof and sets the auxpow flag, or detaches it and
// clears the flag when auxPow is nil.
func (h *BlockHeader) SetAuxPow(auxPow *AuxPow) {
	h.auxPow = auxPow
	h.SetAuxpowFlag(auxPow != nil)
}

// Pure returns the fixed part of the header.
func (h *BlockHeader) Pure() PureBlockHeader { return h.PureBlockHeader }

// Copy creates a deep copy of a BlockHeader so that the original does not get
// modified when the copy is manipulated.
func (h *BlockHeader) Copy() *BlockHeader {
	clone := *h
	if h.auxPow != nil {
		clone.auxPow = h.auxPow.Copy()
	}
	return &clone
}

// SerializeSize returns the number of bytes the header takes on the wire.
func (h *BlockHeader) SerializeSize() int {
	n := PureBlockHeaderSize
	if h.auxPow != nil {
		n += h.auxPow.SerializeSize()
	}
	return n
}

// Deserialize decodes a header from r into the receiver. The AuxPow is read
// if and only if the decoded version carries the auxpow flag.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, h)
}

// Serialize encodes the header into w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Bytes returns the serialized header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, h.SerializeSize()))
	err := h.Serialize(buf)
	return buf.Bytes(), err
}

// DecodeBlockHeader reads a single header from r.
func DecodeBlockHeader(r io.Reader) (*BlockHeader, error) {
	h := &BlockHeader{}
	err := h.Deserialize(r)
	return h, err
}

func readBlockHeader(r io.Reader, h *BlockHeader) error {
	if err := readPureBlockHeader(r, &h.PureBlockHeader); err != nil {
		return err
	}

	h.auxPow = nil
	if !h.IsAuxpow() {
		return nil
	}

	auxPow := new(AuxPow)
	if err := readAuxPow(r, auxPow); err != nil {
		return err
	}
	h.auxPow = auxPow
	return nil
}

func writeBlockHeader(w io.Writer, h *BlockHeader) error {
	if h.IsAuxpow() != (h.auxPow != nil) {
		return Error("writeBlockHeader", fmt.Sprintf(
			"auxpow flag %v does not match %s header", h.IsAuxpow(), h.Kind()))
	}

	if err := writePureBlockHeader(w, &h.PureBlockHeader); err != nil {
		return err
	}
	if h.auxPow == nil {
		return nil
	}
	return writeAuxPow(w, h.auxPow)
}
