// Package schema — request.go
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	securityRequestFieldProvenance     = 0
	securityRequestFieldDomainContext  = 1
	securityRequestFieldCount          = 2
)

// SecurityRequest is the top-level message processed by the gate's
// primary entry point.
type SecurityRequest struct {
	_tab flatbuffers.Table
}

// GetRootAsSecurityRequest returns a SecurityRequest view over a
// verified buffer. Callers must run Verify on the buffer first — this
// function performs no bounds checking of its own.
func GetRootAsSecurityRequest(buf []byte, offset flatbuffers.UOffsetT) *SecurityRequest {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &SecurityRequest{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *SecurityRequest) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *SecurityRequest) Table() flatbuffers.Table { return rcv._tab }

func (rcv *SecurityRequest) Provenance(obj *ProvenanceRecord) *ProvenanceRecord {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(securityRequestFieldProvenance)))
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

func (rcv *SecurityRequest) DomainContext(obj *DomainContext) *DomainContext {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(vtableSlot(securityRequestFieldDomainContext)))
	if o == 0 {
		return nil
	}
	x := rcv._tab.Indirect(rcv._tab.Pos + o)
	if obj == nil {
		obj = new(DomainContext)
	}
	obj.Init(rcv._tab.Bytes, x)
	return obj
}

func SecurityRequestStart(builder *flatbuffers.Builder) {
	builder.StartObject(securityRequestFieldCount)
}

func SecurityRequestAddProvenance(builder *flatbuffers.Builder, provenance flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(securityRequestFieldProvenance, provenance, 0)
}

func SecurityRequestAddDomainContext(builder *flatbuffers.Builder, dc flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(securityRequestFieldDomainContext, dc, 0)
}

func SecurityRequestEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

func FinishSecurityRequestBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}
