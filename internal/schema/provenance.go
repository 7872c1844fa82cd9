// Package schema — provenance.go
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// ProvenanceRecord field vtable slots, in declaration order.
const (
	provenanceFieldContentDigest       = 0
	provenanceFieldTimestampNs         = 1
	provenanceFieldWitnessChainHeight  = 2
	provenanceFieldOriginSystem        = 3
	provenanceFieldPublicKey           = 4
	provenanceFieldSignature           = 5
	provenanceFieldPQSignature         = 6
	provenanceFieldCount               = 7
)

// ProvenanceRecord is the authenticity envelope attached to every
// request and every signature update.
type ProvenanceRecord struct {
	_tab flatbuffers.Table
}

func (rcv *ProvenanceRecord) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *ProvenanceRecord) Table() flatbuffers.Table { return rcv._tab }

func vtableSlot(n int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*n)
}

// ContentDigest returns the embedded content digest struct, or nil if
// absent from the vtable.
func (rcv *ProvenanceRecord) ContentDigest(obj *Xxh3Digest) *Xxh3Digest {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldContentDigest)))
	if o == 0 {
		return nil
	}
	if obj == nil {
		obj = new(Xxh3Digest)
	}
	obj.Init(rcv._tab.Bytes, rcv._tab.Pos+o)
	return obj
}

func (rcv *ProvenanceRecord) TimestampNs() (uint64, bool) {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldTimestampNs)))
	if o == 0 {
		return 0, false
	}
	return rcv._tab.GetUint64(rcv._tab.Pos + o), true
}

func (rcv *ProvenanceRecord) WitnessChainHeight() (uint64, bool) {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldWitnessChainHeight)))
	if o == 0 {
		return 0, false
	}
	return rcv._tab.GetUint64(rcv._tab.Pos + o), true
}

func (rcv *ProvenanceRecord) OriginSystem() (uint8, bool) {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldOriginSystem)))
	if o == 0 {
		return 0, false
	}
	return rcv._tab.GetByte(rcv._tab.Pos + o), true
}

func (rcv *ProvenanceRecord) PublicKeyBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldPublicKey)))
	if o == 0 {
		return nil
	}
	return rcv._tab.ByteVector(rcv._tab.Pos + o)
}

func (rcv *ProvenanceRecord) SignatureBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldSignature)))
	if o == 0 {
		return nil
	}
	return rcv._tab.ByteVector(rcv._tab.Pos + o)
}

func (rcv *ProvenanceRecord) PQSignatureBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(provenanceFieldPQSignature)))
	if o == 0 {
		return nil
	}
	return rcv._tab.ByteVector(rcv._tab.Pos + o)
}

// ─── Builder side ─────────────────────────────────────────────────────────

func ProvenanceRecordStart(builder *flatbuffers.Builder) {
	builder.StartObject(provenanceFieldCount)
}

func ProvenanceRecordAddContentDigest(builder *flatbuffers.Builder, contentDigest flatbuffers.UOffsetT) {
	builder.PrependStructSlot(provenanceFieldContentDigest, contentDigest, 0)
}

func ProvenanceRecordAddTimestampNs(builder *flatbuffers.Builder, v uint64) {
	builder.PrependUint64Slot(provenanceFieldTimestampNs, v, 0)
}

func ProvenanceRecordAddWitnessChainHeight(builder *flatbuffers.Builder, v uint64) {
	builder.PrependUint64Slot(provenanceFieldWitnessChainHeight, v, 0)
}

func ProvenanceRecordAddOriginSystem(builder *flatbuffers.Builder, v uint8) {
	builder.PrependByteSlot(provenanceFieldOriginSystem, v, 0)
}

func ProvenanceRecordAddPublicKey(builder *flatbuffers.Builder, pk flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(provenanceFieldPublicKey, pk, 0)
}

func ProvenanceRecordAddSignature(builder *flatbuffers.Builder, sig flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(provenanceFieldSignature, sig, 0)
}

func ProvenanceRecordAddPQSignature(builder *flatbuffers.Builder, pq flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(provenanceFieldPQSignature, pq, 0)
}

func ProvenanceRecordEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
