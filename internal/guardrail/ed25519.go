// Package guardrail — ed25519.go
//
// Signature verification uses ed25519consensus rather than the standard
// library's crypto/ed25519.Verify. The stdlib verifier is permissive about
// non-canonical S values and small-order/mixed-order points in ways that
// let a single message validate against more than one nominally-distinct
// signature — acceptable for a batch-friendly general-purpose verifier,
// not for a replay guardrail whose whole job is telling signatures apart.
// ed25519consensus implements the cofactored ZIP215 verification equation
// consensus systems rely on for exactly this reason.
package guardrail

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"
	"github.com/hdevalence/ed25519consensus"
)

// SignedTupleSize is the length, in bytes, of the message Ed25519 signs:
// the raw 16-byte content digest followed by the 8-byte little-endian
// timestamp.
const SignedTupleSize = 24

// VerifyProvenanceSignature checks an Ed25519 signature over the 24-byte
// signed tuple built from digest and timestampNs. Any of the three
// required fields being absent is reported as its own distinct reason
// rather than folded into a generic invalid-signature result, so callers
// can tell "nothing was signed" from "something was signed badly".
func VerifyProvenanceSignature(digestPresent bool, digest [16]byte, timestampNs uint64, pubKey, sig []byte) error {
	if !digestPresent {
		return violation(ReasonMissingContentDigest, "")
	}
	if len(sig) == 0 {
		return violation(ReasonMissingSignature, "")
	}
	if len(pubKey) == 0 {
		return violation(ReasonMissingPublicKey, "")
	}
	if len(pubKey) != ed25519.PublicKeySize {
		return violation(ReasonInvalidPublicKey, "length %d, want %d", len(pubKey), ed25519.PublicKeySize)
	}
	if len(sig) != ed25519.SignatureSize {
		return violation(ReasonInvalidSignature, "length %d, want %d", len(sig), ed25519.SignatureSize)
	}
	var point edwards25519.Point
	if _, err := point.SetBytes(pubKey); err != nil {
		return violation(ReasonInvalidPublicKey, "not a valid curve point: %v", err)
	}

	var msg [SignedTupleSize]byte
	copy(msg[0:16], digest[:])
	putUint64LE(msg[16:24], timestampNs)

	if !ed25519consensus.Verify(ed25519.PublicKey(pubKey), msg[:], sig) {
		return violation(ReasonInvalidSignature, "verification failed")
	}
	return nil
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
