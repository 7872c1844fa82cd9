// Package schema — digest.go
//
// Generated-accessor style bindings for the gate's binary wire schema.
// These follow the flatbuffers Go codegen conventions (Table/Struct,
// Init(buf, pos), field accessors reading through a vtable) so the
// low-level encode/decode primitives come from the flatbuffers runtime
// rather than being reinvented here. Structural soundness — bounded
// depth, bounded table count, bounds-checked offsets — is established
// separately by verifier.go before any of these accessors are trusted
// against adversarial input.
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// xxh3DigestSize is the wire size, in bytes, of an Xxh3Digest struct:
// two inline uint64 fields, no indirection.
const xxh3DigestSize = 16

// Xxh3Digest is a 128-bit content digest, wire-encoded as a flatbuffers
// struct (inline, fixed-size, no vtable).
type Xxh3Digest struct {
	_tab flatbuffers.Struct
}

// Init points the accessor at buf[i:].
func (rcv *Xxh3Digest) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

// Lo returns the low 64 bits.
func (rcv *Xxh3Digest) Lo() uint64 {
	return rcv._tab.GetUint64(rcv._tab.Pos + 0)
}

// Hi returns the high 64 bits.
func (rcv *Xxh3Digest) Hi() uint64 {
	return rcv._tab.GetUint64(rcv._tab.Pos + 8)
}

// Bytes returns the 16-byte little-endian wire representation of the
// digest, used verbatim as the first half of the Ed25519 signed tuple.
func (rcv *Xxh3Digest) Bytes() [16]byte {
	var out [16]byte
	copy(out[:], rcv._tab.Bytes[rcv._tab.Pos:rcv._tab.Pos+xxh3DigestSize])
	return out
}

// CreateXxh3Digest prepends a standalone Xxh3Digest struct to the
// builder, returning its offset. Used when constructing a digest that
// is not embedded inline inside a parent struct.
func CreateXxh3Digest(builder *flatbuffers.Builder, lo, hi uint64) flatbuffers.UOffsetT {
	builder.Prep(8, xxh3DigestSize)
	builder.PrependUint64(hi)
	builder.PrependUint64(lo)
	return builder.Offset()
}
