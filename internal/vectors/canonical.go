// Package vectors — canonical.go
//
// Canonical conformance scenarios covering each policy outcome the gate
// can produce. Seed writes these into a DB so cmd/gate-vectors has a
// baseline fixture set out of the box; operators can add their own
// alongside them.
package vectors

import (
	"crypto/ed25519"

	"github.com/octoreflex/sentrygate/internal/gate"
	"github.com/octoreflex/sentrygate/internal/gatemsg"
	"github.com/octoreflex/sentrygate/internal/schema"
)

func provenance(pub ed25519.PublicKey, priv ed25519.PrivateKey, lo, hi, ts, height uint64, system uint8) gatemsg.Provenance {
	return gatemsg.Provenance{
		DigestLo: lo, DigestHi: hi, TimestampNs: ts,
		ChainHeight: height, OriginSystem: system,
		PublicKey: pub, PrivateKey: priv,
	}
}

// Canonical returns the baseline scenarios, each built with its own
// fresh Ed25519 identity so vectors never share key material.
func Canonical() ([]Vector, error) {
	var out []Vector
	for _, build := range []func() (Vector, error){accept, stale, replay, chainRegression, embeddingTooLong, updateMerge} {
		v, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func newIdentity() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(nil)
}

func accept() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		Name:        "accept",
		Description: "accept: first-ever message from an origin, fresh timestamp, valid signature",
		Steps: []Step{{
			Kind:         StepSecurityRequest,
			NowNs:        60_000_000_000,
			Provenance:   provenance(pub, priv, 1, 2, 59_000_000_000, 1, 7),
			ExpectedCode: uint32(gate.Allow),
		}},
	}, nil
}

func stale() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		Name:        "stale-timestamp",
		Description: "stale: timestamp_ns = 0 is outside the 30s freshness window at now_ns = 60s",
		Steps: []Step{{
			Kind:         StepSecurityRequest,
			NowNs:        60_000_000_000,
			Provenance:   provenance(pub, priv, 1, 2, 0, 1, 7),
			ExpectedCode: uint32(gate.Deny),
		}},
	}, nil
}

func replay() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	first := provenance(pub, priv, 1, 2, 59_000_000_000, 1, 7)
	return Vector{
		Name:        "replay",
		Description: "replay: a request accepted, then the identical request re-submitted is denied as non-monotonic",
		Steps: []Step{
			{Kind: StepSecurityRequest, NowNs: 60_000_000_000, Provenance: first, ExpectedCode: uint32(gate.Allow)},
			{Kind: StepSecurityRequest, NowNs: 60_000_000_000, Provenance: first, ExpectedCode: uint32(gate.Deny), Note: "non-monotonic timestamp"},
		},
	}, nil
}

func chainRegression() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	first := provenance(pub, priv, 1, 2, 59_000_000_000, 5, 7)
	second := provenance(pub, priv, 3, 4, 59_500_000_000, 3, 7)
	return Vector{
		Name:        "chain-regression",
		Description: "chain regression: height 5 committed, then a fresh-timestamp follow-up with height 3 is quarantined and does not commit",
		Steps: []Step{
			{Kind: StepSecurityRequest, NowNs: 60_000_000_000, Provenance: first, ExpectedCode: uint32(gate.Allow)},
			{Kind: StepSecurityRequest, NowNs: 60_000_000_000, Provenance: second, ExpectedCode: uint32(gate.Quarantine), Note: "witness_chain_height regressed from 5 to 3"},
		},
	}, nil
}

func embeddingTooLong() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	p := provenance(pub, priv, 1, 2, 59_000_000_000, 1, 7)
	p.EmbeddingLen = 2048
	return Vector{
		Name:        "embedding-too-long",
		Description: "memory gate: well-formed request whose 2048-element embedding exceeds the post-parse cap",
		Steps: []Step{{
			Kind:         StepSecurityRequest,
			NowNs:        60_000_000_000,
			Provenance:   p,
			ExpectedCode: uint32(gate.ErrOOM),
		}},
	}, nil
}

func updateMerge() (Vector, error) {
	pub, priv, err := newIdentity()
	if err != nil {
		return Vector{}, err
	}
	p := provenance(pub, priv, 9, 9, 59_000_000_000, 1, 1)
	sigs := []schema.Xxh3DigestValue{{Lo: 0xA, Hi: 0xA}, {Lo: 0xB, Hi: 0xB}, {Lo: 0xC, Hi: 0xC}}
	return Vector{
		Name:        "update-merge",
		Description: "signature-update merge: three fresh digests accepted, then the identical update re-submitted is denied (non-monotonic timestamp) and the store is unchanged",
		Steps: []Step{
			{Kind: StepSignatureUpdate, NowNs: 60_000_000_000, Provenance: p, NewSignatures: sigs, ExpectedCode: uint32(gate.Allow)},
			{Kind: StepSignatureUpdate, NowNs: 60_000_000_000, Provenance: p, NewSignatures: sigs, ExpectedCode: uint32(gate.Deny), Note: "identical provenance resubmitted: non-monotonic timestamp"},
		},
	}, nil
}
