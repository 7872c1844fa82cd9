// Package systemtwo — codec.go
//
// System 2 is the off-sandbox attestation authority that issues
// SignatureUpdate messages: the gate itself never originates trust, it
// only verifies signatures System 2 pushes to it. This package is the
// host-side gRPC transport that receives those pushes and hands the raw
// flatbuffers bytes to apply_signature_update unchanged.
//
// There is no .proto file and no protoc-generated stub in this tree: the
// wire payload already has a message format (flatbuffers) and re-encoding
// it as protobuf would mean decoding it twice for no benefit. Instead this package registers a gRPC codec
// that treats the payload as an opaque byte slice and a hand-written
// grpc.ServiceDesc in place of codegen — the same "raw bytes over gRPC"
// technique used by gRPC proxies that forward payloads without
// understanding them.
package systemtwo

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// rawFrame is the Marshal/Unmarshal target for the raw codec: exactly the
// bytes of one flatbuffers-encoded SignatureUpdate, no envelope.
type rawFrame []byte

// rawCodec implements encoding.Codec by passing payload bytes through
// unchanged. It never allocates beyond what Unmarshal's copy requires.
type rawCodec struct{}

const codecName = "sentrygate-raw"

func (rawCodec) Name() string { return codecName }

func (rawCodec) Marshal(v any) ([]byte, error) {
	f, ok := v.(*rawFrame)
	if !ok {
		return nil, fmt.Errorf("systemtwo: codec cannot marshal %T", v)
	}
	return *f, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	f, ok := v.(*rawFrame)
	if !ok {
		return fmt.Errorf("systemtwo: codec cannot unmarshal into %T", v)
	}
	*f = append((*f)[:0], data...)
	return nil
}

func init() {
	encoding.RegisterCodec(rawCodec{})
}
