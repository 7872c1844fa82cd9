package guardrail

import (
	"crypto/ed25519"
	"testing"
)

func TestCheckMessageSize(t *testing.T) {
	if err := CheckMessageSize(100, 100); err != nil {
		t.Fatalf("equal length should be accepted: %v", err)
	}
	if err := CheckMessageSize(101, 100); err == nil {
		t.Fatal("expected rejection for oversize message")
	}
}

func TestCheckEmbeddingLength(t *testing.T) {
	if err := CheckEmbeddingLength(false, 99999, 1024); err != nil {
		t.Fatalf("absent embedding should never fail: %v", err)
	}
	if err := CheckEmbeddingLength(true, 1024, 1024); err != nil {
		t.Fatalf("length equal to cap should be accepted: %v", err)
	}
	if err := CheckEmbeddingLength(true, 1025, 1024); err == nil {
		t.Fatal("expected rejection for over-length embedding")
	}
}

func TestCheckFreshness(t *testing.T) {
	const window = uint64(30_000_000_000)

	// Fresh, monotone.
	if err := CheckFreshness(59_000_000_000, 0, 60_000_000_000, window); err != nil {
		t.Fatalf("expected accept: %v", err)
	}
	// Stale.
	if err := CheckFreshness(0, 0, 60_000_000_000, window); err == nil {
		t.Fatal("expected stale rejection")
	}
	// Non-monotonic: equal to last seen.
	if err := CheckFreshness(1000, 1000, 1000, window); err == nil {
		t.Fatal("expected non-monotonic rejection for equal timestamp")
	}
	// Non-monotonic: before last seen.
	if err := CheckFreshness(999, 1000, 1000, window); err == nil {
		t.Fatal("expected non-monotonic rejection for regressed timestamp")
	}
	// Future timestamp saturates age to 0 and is judged fresh, but still
	// subject to monotonicity.
	if err := CheckFreshness(2000, 1000, 1000, window); err != nil {
		t.Fatalf("future timestamp with monotone advance should be accepted: %v", err)
	}
}

func TestCheckChainHeight(t *testing.T) {
	if err := CheckChainHeight(0, 0); err != nil {
		t.Fatalf("first-ever message at height 0 should be accepted: %v", err)
	}
	if err := CheckChainHeight(5, 0); err != nil {
		t.Fatalf("first-ever message at any height should be accepted: %v", err)
	}
	if err := CheckChainHeight(6, 5); err != nil {
		t.Fatalf("strictly increasing height should be accepted: %v", err)
	}
	if err := CheckChainHeight(5, 5); err == nil {
		t.Fatal("expected regression rejection for equal height")
	}
	if err := CheckChainHeight(3, 5); err == nil {
		t.Fatal("expected regression rejection for decreased height")
	}
}

func TestDigestEq(t *testing.T) {
	if !DigestEq(1, 2, 1, 2) {
		t.Fatal("identical digests must compare equal")
	}
	if DigestEq(1, 2, 1, 3) {
		t.Fatal("differing hi half must not compare equal")
	}
	if DigestEq(1, 2, 9, 2) {
		t.Fatal("differing lo half must not compare equal")
	}
}

func TestCheckPQSignatureLength(t *testing.T) {
	// Bootstrap mode: anything goes.
	if err := CheckPQSignatureLength(true, 12345, 0); err != nil {
		t.Fatalf("bootstrap mode should accept any length: %v", err)
	}
	if err := CheckPQSignatureLength(false, 0, 0); err != nil {
		t.Fatalf("bootstrap mode should accept absence: %v", err)
	}
	// Enforced mode.
	if err := CheckPQSignatureLength(false, 0, 1312); err != nil {
		t.Fatalf("absence should still be tolerated once enforced: %v", err)
	}
	if err := CheckPQSignatureLength(true, 0, 1312); err != nil {
		t.Fatalf("empty slice should still be tolerated once enforced: %v", err)
	}
	if err := CheckPQSignatureLength(true, 1312, 1312); err != nil {
		t.Fatalf("matching length should be accepted: %v", err)
	}
	if err := CheckPQSignatureLength(true, 1311, 1312); err == nil {
		t.Fatal("expected rejection for mismatched length")
	}
}

func signedTuple(digest [16]byte, ts uint64) []byte {
	msg := make([]byte, SignedTupleSize)
	copy(msg[0:16], digest[:])
	putUint64LE(msg[16:24], ts)
	return msg
}

func TestVerifyProvenanceSignatureAccepts(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	digest := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	const ts = uint64(59_000_000_000)
	sig := ed25519.Sign(priv, signedTuple(digest, ts))

	if err := VerifyProvenanceSignature(true, digest, ts, pub, sig); err != nil {
		t.Fatalf("expected valid signature to verify: %v", err)
	}
}

func TestVerifyProvenanceSignatureMissingFields(t *testing.T) {
	digest := [16]byte{}
	if err := VerifyProvenanceSignature(false, digest, 0, make([]byte, 32), make([]byte, 64)); err == nil {
		t.Fatal("expected missing-digest rejection")
	}
	if err := VerifyProvenanceSignature(true, digest, 0, make([]byte, 32), nil); err == nil {
		t.Fatal("expected missing-signature rejection")
	}
	if err := VerifyProvenanceSignature(true, digest, 0, nil, make([]byte, 64)); err == nil {
		t.Fatal("expected missing-public-key rejection")
	}
}

// TestChainHeightChangeDoesNotInvalidateSignature covers invariant #6:
// witness_chain_height lives outside the signed tuple, so changing it
// must not affect signature validity.
func TestChainHeightChangeDoesNotInvalidateSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	digest := [16]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	const ts = uint64(1000)
	sig := ed25519.Sign(priv, signedTuple(digest, ts))

	// witness_chain_height is not part of the message at all; verifying
	// against the same (digest, ts) regardless of any height value the
	// caller tracks separately must still succeed.
	if err := VerifyProvenanceSignature(true, digest, ts, pub, sig); err != nil {
		t.Fatalf("signature must remain valid independent of chain height: %v", err)
	}
}

// TestSingleBitFlipInvalidatesSignature covers invariant #7.
func TestSingleBitFlipInvalidatesSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	digest := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	const ts = uint64(42)
	msg := signedTuple(digest, ts)
	sig := ed25519.Sign(priv, msg)

	for i := 0; i < SignedTupleSize; i++ {
		flipped := append([]byte(nil), msg...)
		flipped[i] ^= 0x01
		var d [16]byte
		copy(d[:], flipped[0:16])
		var ts2 uint64
		for j := 0; j < 8; j++ {
			ts2 |= uint64(flipped[16+j]) << (8 * j)
		}
		if err := VerifyProvenanceSignature(true, d, ts2, pub, sig); err == nil {
			t.Fatalf("bit flip at byte %d should invalidate signature", i)
		}
	}
}

func TestVerifyProvenanceSignatureRejectsOffCurveKey(t *testing.T) {
	digest := [16]byte{1, 2, 3}
	badKey := make([]byte, 32)
	for i := range badKey {
		badKey[i] = 0xFF
	}
	sig := make([]byte, 64)
	if err := VerifyProvenanceSignature(true, digest, 1, badKey, sig); err == nil {
		t.Fatal("expected rejection for key that fails to decode as a curve point")
	}
}
