// Package abi implements the little-endian binary serialization the chain's
// contracts expect: base32-packed names, varuint32 length prefixes, and
// fixed-point assets.
package abi

import (
	"bytes"
	"encoding/binary"
)

// Encoder accumulates serialized fields in wire order.
type Encoder struct {
	buf bytes.Buffer
}

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Encoder) WriteUint8(b byte) {
	e.buf.WriteByte(b)
}

func (e *Encoder) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	e.buf.Write(tmp[:])
}

func (e *Encoder) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf.Write(tmp[:])
}

func (e *Encoder) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf.Write(tmp[:])
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

// WriteVaruint32 writes v as a LEB128 variable-length unsigned integer.
func (e *Encoder) WriteVaruint32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		e.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteBytes writes a varuint32 length prefix followed by the raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteVaruint32(uint32(len(b)))
	e.buf.Write(b)
}

// WriteString writes a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteName packs and writes an account/action/table name.
func (e *Encoder) WriteName(s string) error {
	n, err := PackName(s)
	if err != nil {
		return err
	}
	e.WriteUint64(n)
	return nil
}

// WriteAsset writes the fixed-point amount and its symbol.
func (e *Encoder) WriteAsset(a Asset) {
	e.WriteInt64(a.Amount)
	e.WriteUint64(a.Symbol.pack())
}
