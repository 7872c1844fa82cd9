// Package gatemsg builds signed SecurityRequest and SignatureUpdate
// flatbuffers messages from plain Go values. It exists so the developer
// tooling (cmd/gate-sim, cmd/gate-vectors) and tests share one encoder
// instead of duplicating the builder call sequence gate's own tests use
// (see internal/gate/entry_test.go, the original source of this
// sequence).
package gatemsg

import (
	"crypto/ed25519"
	"encoding/binary"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/octoreflex/sentrygate/internal/schema"
)

// Provenance is the plain-value form of a ProvenanceRecord, signed by
// BuildSecurityRequest/BuildSignatureUpdate rather than supplied
// pre-signed — callers provide the signing key, not the signature.
type Provenance struct {
	DigestLo, DigestHi uint64
	TimestampNs        uint64
	ChainHeight        uint64
	OriginSystem       uint8
	PublicKey          ed25519.PublicKey
	PrivateKey         ed25519.PrivateKey
	EmbeddingLen       int // 0 means no DomainContext is attached
}

// signedTuple returns the 24-byte message VerifyProvenanceSignature
// expects: content_digest ‖ timestamp_ns, both little-endian.
func signedTuple(lo, hi, ts uint64) []byte {
	msg := make([]byte, 24)
	binary.LittleEndian.PutUint64(msg[0:8], lo)
	binary.LittleEndian.PutUint64(msg[8:16], hi)
	binary.LittleEndian.PutUint64(msg[16:24], ts)
	return msg
}

func buildProvenance(b *flatbuffers.Builder, p Provenance) flatbuffers.UOffsetT {
	sig := ed25519.Sign(p.PrivateKey, signedTuple(p.DigestLo, p.DigestHi, p.TimestampNs))

	pk := b.CreateByteVector(p.PublicKey)
	sg := b.CreateByteVector(sig)

	schema.ProvenanceRecordStart(b)
	schema.ProvenanceRecordAddTimestampNs(b, p.TimestampNs)
	schema.ProvenanceRecordAddWitnessChainHeight(b, p.ChainHeight)
	schema.ProvenanceRecordAddOriginSystem(b, p.OriginSystem)
	schema.ProvenanceRecordAddPublicKey(b, pk)
	schema.ProvenanceRecordAddSignature(b, sg)
	// Xxh3Digest is an inline struct field, written immediately before
	// the table that embeds it finishes.
	b.Prep(8, 16)
	b.PrependUint64(p.DigestHi)
	b.PrependUint64(p.DigestLo)
	digestOffset := flatbuffers.UOffsetT(b.Offset())
	schema.ProvenanceRecordAddContentDigest(b, digestOffset)
	return schema.ProvenanceRecordEnd(b)
}

// BuildSecurityRequest encodes a signed SecurityRequest. When
// p.EmbeddingLen > 0 a DomainContext with that many zero-valued
// embedding elements is attached.
func BuildSecurityRequest(p Provenance) []byte {
	b := flatbuffers.NewBuilder(512)

	var embOffset flatbuffers.UOffsetT
	hasEmbedding := p.EmbeddingLen > 0
	if hasEmbedding {
		schema.DomainContextStartEmbeddingVector(b, p.EmbeddingLen)
		for i := 0; i < p.EmbeddingLen; i++ {
			b.PrependFloat32(0)
		}
		embOffset = b.EndVector(p.EmbeddingLen)
	}

	prov := buildProvenance(b, p)

	var dc flatbuffers.UOffsetT
	if hasEmbedding {
		schema.DomainContextStart(b)
		schema.DomainContextAddEmbedding(b, embOffset)
		dc = schema.DomainContextEnd(b)
	}

	schema.SecurityRequestStart(b)
	schema.SecurityRequestAddProvenance(b, prov)
	if hasEmbedding {
		schema.SecurityRequestAddDomainContext(b, dc)
	}
	req := schema.SecurityRequestEnd(b)
	schema.FinishSecurityRequestBuffer(b, req)
	return b.FinishedBytes()
}

// BuildSignatureUpdate encodes a signed SignatureUpdate carrying
// newSigs as its new_signatures vector.
func BuildSignatureUpdate(p Provenance, newSigs []schema.Xxh3DigestValue) []byte {
	b := flatbuffers.NewBuilder(512)

	// The struct-of-digests vector must be built before the provenance
	// table it sits alongside starts, per the single-pass builder
	// discipline, but buildProvenance itself starts a table; build the
	// vector first into a separate builder step by constructing
	// provenance after the vector offset is captured.
	sigsOffset := schema.CreateNewSignaturesVector(b, newSigs)
	prov := buildProvenance(b, p)

	schema.SignatureUpdateStart(b)
	schema.SignatureUpdateAddProvenance(b, prov)
	schema.SignatureUpdateAddNewSignatures(b, sigsOffset)
	upd := schema.SignatureUpdateEnd(b)
	schema.FinishSignatureUpdateBuffer(b, upd)
	return b.FinishedBytes()
}
