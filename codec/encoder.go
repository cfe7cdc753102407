// Package codec implements the Molecule serialization used by CKB for the
// structures scripts load through syscalls.
package codec

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Marshaler is the interface for types with a Molecule encoding.
type Marshaler interface {
	MarshalMolecule() []byte
}

// Encoder writes Molecule encodings to a given io.Writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder with the given writer.
func NewEncoder(writer io.Writer) *Encoder {
	return &Encoder{w: writer}
}

// Encode writes the Molecule encoding of v.
func (e *Encoder) Encode(v Marshaler) error {
	_, err := e.w.Write(v.MarshalMolecule())
	return err
}

// Marshal returns the Molecule encoding of v.
func Marshal(v Marshaler) []byte {
	return v.MarshalMolecule()
}

func Uint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func Uint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Struct concatenates fixed size fields.
func Struct(fields ...[]byte) []byte {
	return bytes.Join(fields, nil)
}

// Bytes encodes a fixvec<byte>.
func Bytes(b []byte) []byte {
	out := make([]byte, 0, 4+len(b))
	out = append(out, Uint32(uint32(len(b)))...)
	return append(out, b...)
}

// FixVec encodes a vector of fixed size items: an item count then the items.
func FixVec(items [][]byte) []byte {
	out := Uint32(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// DynVec encodes a vector of variable size items: total size, one offset per
// item, then the items.
func DynVec(items [][]byte) []byte {
	return withOffsets(items)
}

// Table encodes a table; the layout is the same as a dynvec over its fields.
func Table(fields ...[]byte) []byte {
	return withOffsets(fields)
}

// Option encodes an option: empty for none, the inner encoding otherwise.
func Option(inner []byte) []byte {
	if inner == nil {
		return []byte{}
	}
	return inner
}

func withOffsets(items [][]byte) []byte {
	header := 4 + 4*len(items)
	total := header
	for _, it := range items {
		total += len(it)
	}
	out := make([]byte, 0, total)
	out = append(out, Uint32(uint32(total))...)
	offset := header
	for _, it := range items {
		out = append(out, Uint32(uint32(offset))...)
		offset += len(it)
	}
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}
