// Package schema — signatureupdate.go
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	signatureUpdateFieldProvenance    = 0
	signatureUpdateFieldNewSignatures = 1
	signatureUpdateFieldCount         = 2
)

// SignatureUpdate is the message System 2 uses to seed trusted content
// digests into the gate's fingerprint store.
type SignatureUpdate struct {
	_tab flatbuffers.Table
}

func GetRootAsSignatureUpdate(buf []byte, offset flatbuffers.UOffsetT) *SignatureUpdate {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &SignatureUpdate{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *SignatureUpdate) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *SignatureUpdate) Table() flatbuffers.Table { return rcv._tab }

func (rcv *SignatureUpdate) Provenance(obj *ProvenanceRecord) *ProvenanceRecord {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(signatureUpdateFieldProvenance)))
	if o == 0 {
		return nil
	}
	x := rcv._tab.Indirect(rcv._tab.Pos + o)
	if obj == nil {
		obj = new(ProvenanceRecord)
	}
	obj.Init(rcv._tab.Bytes, x)
	return obj
}

func (rcv *SignatureUpdate) NewSignaturesLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(signatureUpdateFieldNewSignatures)))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

// NewSignatures returns element j of the new_signatures vector. Elements
// are Xxh3Digest structs stored inline (16 bytes each), not indirected.
func (rcv *SignatureUpdate) NewSignatures(obj *Xxh3Digest, j int) *Xxh3Digest {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(signatureUpdateFieldNewSignatures)))
	if o == 0 {
		return nil
	}
	a := rcv._tab.Vector(o)
	x := a + flatbuffers.UOffsetT(j*xxh3DigestSize)
	if obj == nil {
		obj = new(Xxh3Digest)
	}
	obj.Init(rcv._tab.Bytes, x)
	return obj
}

func SignatureUpdateStart(builder *flatbuffers.Builder) {
	builder.StartObject(signatureUpdateFieldCount)
}

func SignatureUpdateAddProvenance(builder *flatbuffers.Builder, provenance flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(signatureUpdateFieldProvenance, provenance, 0)
}

func SignatureUpdateAddNewSignatures(builder *flatbuffers.Builder, v flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(signatureUpdateFieldNewSignatures, v, 0)
}

func SignatureUpdateEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

func FinishSignatureUpdateBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}

// CreateNewSignaturesVector writes digests as an inline struct vector
// and returns its offset. digests are written in builder order (the
// builder already manages the required reverse-prepend bookkeeping).
func CreateNewSignaturesVector(builder *flatbuffers.Builder, digests []Xxh3DigestValue) flatbuffers.UOffsetT {
	builder.StartVector(xxh3DigestSize, len(digests), 8)
	for i := len(digests) - 1; i >= 0; i-- {
		builder.Prep(8, xxh3DigestSize)
		builder.PrependUint64(digests[i].Hi)
		builder.PrependUint64(digests[i].Lo)
	}
	return builder.EndVector(len(digests))
}

// Xxh3DigestValue is a plain-Go-value form of Xxh3Digest, used when
// building messages rather than reading them.
type Xxh3DigestValue struct {
	Lo, Hi uint64
}
