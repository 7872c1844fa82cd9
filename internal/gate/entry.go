// Package gate — entry.go
//
// The three ABI entry points: gate_init, process_security_request, and
// apply_signature_update. Each runs to completion synchronously and
// returns exactly one Code; no Go error crosses this boundary.
//
// State lives in a package-level slot rather than a struct the host
// constructs: the gate is a singleton per sandboxed instance, and the
// host embeds one instance per isolate. borrowed guards against
// re-entry — one entry point calling another, directly or indirectly —
// which must surface as ErrState rather than silently corrupting state.
// There are no goroutines here, so a bool suffices; a mutex would imply
// a concurrency model this package deliberately does not have.
package gate

import (
	"github.com/octoreflex/sentrygate/internal/gateconfig"
	"github.com/octoreflex/sentrygate/internal/guardrail"
	"github.com/octoreflex/sentrygate/internal/schema"
)

// Clock returns the host-provided monotonic nanosecond counter. It must
// be registered via RegisterClock before Init is called; this mirrors
// the ABI's host_monotonic_ns import, which must be registered before
// gate_init in the real embedding.
type Clock func() uint64

var (
	state     *State
	borrowed  bool
	hostNowNs Clock
)

// RegisterClock installs the host's monotonic clock function. Must be
// called before Init.
func RegisterClock(c Clock) {
	hostNowNs = c
}

// Init installs a fresh gate state, discarding any prior state. It is
// idempotent only in effect: calling it twice does not error, it simply
// starts over. Required before either message entry point is called.
func Init() Code {
	state = NewState()
	borrowed = false
	return Allow
}

// borrow acquires the exclusive, non-reentrant hold on gate state that
// both message entry points require. ok is false if the gate was never
// initialised or is already borrowed (re-entry).
func borrow() (release func(), ok bool) {
	if state == nil || borrowed {
		return nil, false
	}
	borrowed = true
	return func() { borrowed = false }, true
}

// ProcessSecurityRequest implements process_security_request(ptr, len).
// buf is the host's linear-memory view of the message; the gate neither
// writes to it nor retains a reference past return.
func ProcessSecurityRequest(buf []byte) Code {
	if err := guardrail.CheckMessageSize(len(buf), gateconfig.MaxMessageBytes); err != nil {
		return ErrSize
	}
	if err := schema.VerifySecurityRequest(buf); err != nil {
		return ErrParse
	}
	req := schema.GetRootAsSecurityRequest(buf, 0)

	var dc schema.DomainContext
	if d := req.DomainContext(&dc); d != nil {
		if err := guardrail.CheckEmbeddingLength(true, d.EmbeddingLength(), gateconfig.MaxEmbeddingLen); err != nil {
			return ErrOOM
		}
	}

	nowNs := hostNowNs()

	release, ok := borrow()
	if !ok {
		return ErrState
	}
	defer release()

	var prov schema.ProvenanceRecord
	p := req.Provenance(&prov)
	if p == nil {
		return Deny
	}

	return composeProvenanceGuardrails(state, p, nowNs)
}

// ApplySignatureUpdate implements apply_signature_update(ptr, len). It
// parses buf as a standalone SignatureUpdate root (not as a
// SecurityRequest envelope field), runs the same provenance guardrails,
// and on success merges every digest in new_signatures into the trusted
// fingerprint store.
func ApplySignatureUpdate(buf []byte) Code {
	if err := guardrail.CheckMessageSize(len(buf), gateconfig.MaxMessageBytes); err != nil {
		return ErrSize
	}
	if err := schema.VerifySignatureUpdate(buf); err != nil {
		return ErrParse
	}
	upd := schema.GetRootAsSignatureUpdate(buf, 0)

	nowNs := hostNowNs()

	release, ok := borrow()
	if !ok {
		return ErrState
	}
	defer release()

	var prov schema.ProvenanceRecord
	p := upd.Provenance(&prov)
	if p == nil {
		return Deny
	}

	code := composeProvenanceGuardrails(state, p, nowNs)
	if code != Allow {
		return code
	}

	var d schema.Xxh3Digest
	n := upd.NewSignaturesLength()
	for i := 0; i < n; i++ {
		upd.NewSignatures(&d, i)
		state.addFingerprint(d.Lo(), d.Hi())
	}
	return Allow
}

// composeProvenanceGuardrails runs the full provenance guardrail
// sequence against a single ProvenanceRecord and, on success, commits
// the resulting origin update. It never allocates beyond what
// reading individual fields requires.
func composeProvenanceGuardrails(st *State, p *schema.ProvenanceRecord, nowNs uint64) Code {
	digest := p.ContentDigest(nil)
	var digestBytes [16]byte
	digestPresent := digest != nil
	if digestPresent {
		digestBytes = digest.Bytes()
	}
	timestampNs, _ := p.TimestampNs()
	pubKeyBytes := p.PublicKeyBytes()
	sigBytes := p.SignatureBytes()

	if err := guardrail.VerifyProvenanceSignature(digestPresent, digestBytes, timestampNs, pubKeyBytes, sigBytes); err != nil {
		return Deny
	}

	pqBytes := p.PQSignatureBytes()
	if err := guardrail.CheckPQSignatureLength(pqBytes != nil, len(pqBytes), gateconfig.ExpectedPQSigLen); err != nil {
		return Deny
	}

	// VerifyProvenanceSignature already enforced pubKeyBytes is exactly
	// 32 bytes (ed25519.PublicKeySize) for the Deny above to have been
	// skipped.
	var pubKey [32]byte
	copy(pubKey[:], pubKeyBytes)

	height, _ := p.WitnessChainHeight()
	system, _ := p.OriginSystem()

	lastTimestamp, lastHeight := st.lookupOrigin(system, pubKey)

	if err := guardrail.CheckFreshness(timestampNs, lastTimestamp, nowNs, gateconfig.FreshnessWindowNS); err != nil {
		return Deny
	}

	if err := guardrail.CheckChainHeight(height, lastHeight); err != nil {
		// A regressed height is quarantined, not committed: the origin
		// record must keep its last good (timestamp, height) pair so a
		// later legitimate message is still judged against it, not
		// against the rejected one.
		return Quarantine
	}

	st.upsertOrigin(system, pubKey, timestampNs, height)
	return Allow
}

// Snapshot returns a read-only view of the current gate state for the
// operator inspector: the occupied origin slots, the fingerprint count,
// and whether the gate has been initialised at all. It never mutates
// state and is safe to call at any time, including while a message entry
// point holds the borrow — reading does not need exclusive access the
// way committing a mutation does.
func Snapshot() (origins []OriginSnapshot, fingerprintCount int, initialised bool) {
	if state == nil {
		return nil, 0, false
	}
	return state.Origins(), state.FingerprintCount(), true
}
