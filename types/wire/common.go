// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
)

var (
	// littleEndian is a convenience variable since binary.LittleEndian is
	// quite long.
	littleEndian = binary.LittleEndian
)

// binarySerializer provides fixed width integer helpers that read and write
// through a small scratch buffer so a full binary.Read reflection pass is
// avoided for the hot header paths.
type binarySerializer struct{}

// BinarySerializer is the serializer shared by the package encoders.
var BinarySerializer binarySerializer

func (binarySerializer) Uint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (binarySerializer) Uint16(r io.Reader, byteOrder binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint16(buf[:]), nil
}

func (binarySerializer) Uint32(r io.Reader, byteOrder binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(buf[:]), nil
}

func (binarySerializer) Uint64(r io.Reader, byteOrder binary.ByteOrder) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint64(buf[:]), nil
}

func (binarySerializer) PutUint8(w io.Writer, val uint8) error {
	_, err := w.Write([]byte{val})
	return err
}

func (binarySerializer) PutUint16(w io.Writer, byteOrder binary.ByteOrder, val uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func (binarySerializer) PutUint32(w io.Writer, byteOrder binary.ByteOrder, val uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func (binarySerializer) PutUint64(w io.Writer, byteOrder binary.ByteOrder, val uint64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}
