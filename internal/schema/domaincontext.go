// Package schema — domaincontext.go
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	domainContextFieldEmbedding = 0
	domainContextFieldCount     = 1
)

// DomainContext carries optional auxiliary payload for a request.
type DomainContext struct {
	_tab flatbuffers.Table
}

func (rcv *DomainContext) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *DomainContext) Table() flatbuffers.Table { return rcv._tab }

// EmbeddingLength returns the element count of the embedding vector, or
// 0 if the field is absent.
func (rcv *DomainContext) EmbeddingLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(domainContextFieldEmbedding)))
	if o == 0 {
		return 0
	}
	return rcv._tab.VectorLen(o)
}

// Embedding returns element j of the embedding vector.
func (rcv *DomainContext) Embedding(j int) float32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(domainContextFieldEmbedding)))
	if o == 0 {
		return 0
	}
	a := rcv._tab.Vector(o)
	return rcv._tab.GetFloat32(a + flatbuffers.UOffsetT(j*4))
}

func DomainContextStart(builder *flatbuffers.Builder) {
	builder.StartObject(domainContextFieldCount)
}

func DomainContextAddEmbedding(builder *flatbuffers.Builder, embedding flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(domainContextFieldEmbedding, embedding, 0)
}

func DomainContextStartEmbeddingVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(4, numElems, 4)
}

func DomainContextEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
