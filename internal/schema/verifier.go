// Package schema — verifier.go
//
// Hand-rolled structural verifier for the gate's wire messages.
//
// The flatbuffers runtime's own accessors trust that every offset they
// follow lands inside the buffer; that is fine for a generator emitting
// buffers, but fatal for a gate that receives them from an adversary.
// Rather than depend on the flatbuffers library's own (version-specific)
// verifier, this file walks the known schema by hand, using raw byte
// arithmetic, and asserts the same bounds a generic verifier would:
// every offset resolves inside the buffer, nesting never exceeds
// MaxVerifierDepth, and the number of tables visited never exceeds
// MaxVerifierTables. Only after a buffer passes this walk are the
// generated-style accessors in this package safe to call against it.
package schema

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/octoreflex/sentrygate/internal/gateconfig"
)

var (
	// ErrTooLarge is returned when the buffer exceeds the configured
	// message size cap.
	ErrTooLarge = errors.New("schema: message exceeds size cap")

	// ErrOutOfBounds is returned when any offset, vtable, or vector
	// computed while walking the buffer lands outside it.
	ErrOutOfBounds = errors.New("schema: offset out of bounds")

	// ErrTooDeep is returned when nesting exceeds MaxVerifierDepth.
	ErrTooDeep = errors.New("schema: nesting exceeds depth cap")

	// ErrTooManyTables is returned when the walk visits more tables
	// than MaxVerifierTables allows.
	ErrTooManyTables = errors.New("schema: table count exceeds cap")
)

type budget struct {
	tablesVisited int
}

func (b *budget) visitTable() error {
	b.tablesVisited++
	if b.tablesVisited > gateconfig.MaxVerifierTables {
		return ErrTooManyTables
	}
	return nil
}

// boundsCheck asserts that [pos, pos+size) lies within buf.
func boundsCheck(buf []byte, pos, size uint32) error {
	if size > 0 && pos > uint32(len(buf))-size {
		return ErrOutOfBounds
	}
	if pos > uint32(len(buf)) {
		return ErrOutOfBounds
	}
	if uint64(pos)+uint64(size) > uint64(len(buf)) {
		return ErrOutOfBounds
	}
	return nil
}

// vtableHeader reads and bounds-checks the vtable a table at tablePos
// refers to, returning the vtable position, declared vtable size, and
// declared table size.
func vtableHeader(buf []byte, tablePos uint32) (vtablePos, vtableSize, tableSize uint32, err error) {
	if err = boundsCheck(buf, tablePos, 4); err != nil {
		return 0, 0, 0, err
	}
	soffset := int32(binary.LittleEndian.Uint32(buf[tablePos:]))
	if soffset <= 0 || uint32(soffset) > tablePos {
		return 0, 0, 0, ErrOutOfBounds
	}
	vtablePos = tablePos - uint32(soffset)
	if err = boundsCheck(buf, vtablePos, 4); err != nil {
		return 0, 0, 0, err
	}
	vtableSize = uint32(binary.LittleEndian.Uint16(buf[vtablePos:]))
	tableSize = uint32(binary.LittleEndian.Uint16(buf[vtablePos+2:]))
	if vtableSize < 4 {
		return 0, 0, 0, ErrOutOfBounds
	}
	if err = boundsCheck(buf, vtablePos, vtableSize); err != nil {
		return 0, 0, 0, err
	}
	if err = boundsCheck(buf, tablePos, tableSize); err != nil {
		return 0, 0, 0, err
	}
	return vtablePos, vtableSize, tableSize, nil
}

// fieldOffset returns the in-table byte offset stored in the vtable for
// field slot n, or 0 if the vtable does not cover that slot (field
// absent). The vtable layout is [vtableSize, tableSize, slot0, slot1, ...].
func fieldOffset(buf []byte, vtablePos, vtableSize uint32, n int) uint32 {
	slotPos := vtablePos + 4 + uint32(n*2)
	if slotPos+2 > vtablePos+vtableSize {
		return 0
	}
	return uint32(binary.LittleEndian.Uint16(buf[slotPos:]))
}

// verifyIndirectTable validates a required or optional offset-to-table
// field and, if present, recurses via the supplied verify function.
func verifyIndirectTable(buf []byte, tablePos, vtablePos, vtableSize uint32, slot int, depth int, b *budget, required bool, verify func([]byte, uint32, int, *budget) error) error {
	off := fieldOffset(buf, vtablePos, vtableSize, slot)
	if off == 0 {
		if required {
			return fmt.Errorf("%w: required field missing", ErrOutOfBounds)
		}
		return nil
	}
	fieldPos := tablePos + off
	if err := boundsCheck(buf, fieldPos, 4); err != nil {
		return err
	}
	rel := binary.LittleEndian.Uint32(buf[fieldPos:])
	if rel == 0 {
		if required {
			return fmt.Errorf("%w: required field missing", ErrOutOfBounds)
		}
		return nil
	}
	target := fieldPos + rel
	if err := boundsCheck(buf, target, 0); err != nil {
		return err
	}
	if depth+1 > gateconfig.MaxVerifierDepth {
		return ErrTooDeep
	}
	return verify(buf, target, depth+1, b)
}

// verifyByteVector validates an optional [ubyte] vector field, returning
// its declared length (0 if absent).
func verifyByteVector(buf []byte, tablePos, vtablePos, vtableSize uint32, slot int) (uint32, error) {
	return verifyVector(buf, tablePos, vtablePos, vtableSize, slot, 1)
}

func verifyVector(buf []byte, tablePos, vtablePos, vtableSize uint32, slot int, elemSize uint32) (uint32, error) {
	off := fieldOffset(buf, vtablePos, vtableSize, slot)
	if off == 0 {
		return 0, nil
	}
	fieldPos := tablePos + off
	if err := boundsCheck(buf, fieldPos, 4); err != nil {
		return 0, err
	}
	rel := binary.LittleEndian.Uint32(buf[fieldPos:])
	vecPos := fieldPos + rel
	if err := boundsCheck(buf, vecPos, 4); err != nil {
		return 0, err
	}
	length := binary.LittleEndian.Uint32(buf[vecPos:])
	dataPos := vecPos + 4
	// The element-count-times-size product is computed in 64 bits: a
	// declared length near 2^32 must not wrap into a small product that
	// slips past the bounds check.
	if uint64(dataPos)+uint64(length)*uint64(elemSize) > uint64(len(buf)) {
		return 0, ErrOutOfBounds
	}
	return length, nil
}

// verifyInlineStruct validates a fixed-size inline struct field (no
// indirection — it lives directly inside the parent table).
func verifyInlineStruct(buf []byte, tablePos, vtablePos, vtableSize uint32, slot int, size uint32, required bool) error {
	off := fieldOffset(buf, vtablePos, vtableSize, slot)
	if off == 0 {
		if required {
			return fmt.Errorf("%w: required struct field missing", ErrOutOfBounds)
		}
		return nil
	}
	return boundsCheck(buf, tablePos+off, size)
}

// verifyScalarField validates an optional inline scalar field: if the
// vtable covers the slot, the stored offset must land the scalar's full
// width inside the buffer. The offset is a raw u16 straight from the
// wire — nothing ties it to the table's declared size, so a crafted
// vtable can point a scalar past the end of a small buffer and the
// accessors would read out of range.
func verifyScalarField(buf []byte, tablePos, vtablePos, vtableSize uint32, slot int, size uint32) error {
	off := fieldOffset(buf, vtablePos, vtableSize, slot)
	if off == 0 {
		return nil
	}
	return boundsCheck(buf, tablePos+off, size)
}

// verifyProvenanceRecord walks a ProvenanceRecord table.
func verifyProvenanceRecord(buf []byte, tablePos uint32, depth int, b *budget) error {
	if err := b.visitTable(); err != nil {
		return err
	}
	vtablePos, vtableSize, _, err := vtableHeader(buf, tablePos)
	if err != nil {
		return err
	}
	// content_digest is wire-optional here: a ProvenanceRecord missing its
	// digest is a policy rejection (ReasonMissingContentDigest ⇒ Deny via
	// VerifyProvenanceSignature), not a structural parse failure.
	if err := verifyInlineStruct(buf, tablePos, vtablePos, vtableSize, provenanceFieldContentDigest, xxh3DigestSize, false); err != nil {
		return err
	}
	if err := verifyScalarField(buf, tablePos, vtablePos, vtableSize, provenanceFieldTimestampNs, 8); err != nil {
		return err
	}
	if err := verifyScalarField(buf, tablePos, vtablePos, vtableSize, provenanceFieldWitnessChainHeight, 8); err != nil {
		return err
	}
	if err := verifyScalarField(buf, tablePos, vtablePos, vtableSize, provenanceFieldOriginSystem, 1); err != nil {
		return err
	}
	if _, err := verifyByteVector(buf, tablePos, vtablePos, vtableSize, provenanceFieldPublicKey); err != nil {
		return err
	}
	if _, err := verifyByteVector(buf, tablePos, vtablePos, vtableSize, provenanceFieldSignature); err != nil {
		return err
	}
	if _, err := verifyByteVector(buf, tablePos, vtablePos, vtableSize, provenanceFieldPQSignature); err != nil {
		return err
	}
	return nil
}

// verifyDomainContext walks a DomainContext table.
func verifyDomainContext(buf []byte, tablePos uint32, depth int, b *budget) error {
	if err := b.visitTable(); err != nil {
		return err
	}
	vtablePos, vtableSize, _, err := vtableHeader(buf, tablePos)
	if err != nil {
		return err
	}
	length, err := verifyVector(buf, tablePos, vtablePos, vtableSize, domainContextFieldEmbedding, 4)
	if err != nil {
		return err
	}
	if length > 4*gateconfig.MaxEmbeddingLen {
		// Hard cap at the wire level, well above the logical element
		// cap enforced later by the embedding-length guardrail — this
		// only prevents a pathological vector length from forcing an
		// enormous bounds check.
		return ErrTooLarge
	}
	return nil
}

// VerifySecurityRequest validates buf as a root-encoded SecurityRequest
// message: size cap, then a bounded recursive walk of every table,
// vector, and struct it references.
func VerifySecurityRequest(buf []byte) error {
	if len(buf) > gateconfig.MaxMessageBytes {
		return ErrTooLarge
	}
	if err := boundsCheck(buf, 0, 4); err != nil {
		return err
	}
	root := binary.LittleEndian.Uint32(buf)
	if err := boundsCheck(buf, root, 0); err != nil {
		return err
	}
	b := &budget{}
	if err := b.visitTable(); err != nil {
		return err
	}
	vtablePos, vtableSize, _, err := vtableHeader(buf, root)
	if err != nil {
		return err
	}
	// provenance is wire-optional here: its absence is a policy decision
	// (DENY) made by the entry point against the parsed accessor, not a
	// structural parse failure.
	if err := verifyIndirectTable(buf, root, vtablePos, vtableSize, securityRequestFieldProvenance, 1, b, false, verifyProvenanceRecord); err != nil {
		return err
	}
	if err := verifyIndirectTable(buf, root, vtablePos, vtableSize, securityRequestFieldDomainContext, 1, b, false, verifyDomainContext); err != nil {
		return err
	}
	return nil
}

// VerifySignatureUpdate validates buf as a root-encoded SignatureUpdate
// message.
func VerifySignatureUpdate(buf []byte) error {
	if len(buf) > gateconfig.MaxMessageBytes {
		return ErrTooLarge
	}
	if err := boundsCheck(buf, 0, 4); err != nil {
		return err
	}
	root := binary.LittleEndian.Uint32(buf)
	if err := boundsCheck(buf, root, 0); err != nil {
		return err
	}
	b := &budget{}
	if err := b.visitTable(); err != nil {
		return err
	}
	vtablePos, vtableSize, _, err := vtableHeader(buf, root)
	if err != nil {
		return err
	}
	// provenance is wire-optional here for the same reason as in
	// VerifySecurityRequest: absence is DENY, not ErrParse.
	if err := verifyIndirectTable(buf, root, vtablePos, vtableSize, signatureUpdateFieldProvenance, 1, b, false, verifyProvenanceRecord); err != nil {
		return err
	}
	if _, err := verifyVector(buf, root, vtablePos, vtableSize, signatureUpdateFieldNewSignatures, xxh3DigestSize); err != nil {
		return err
	}
	return nil
}
