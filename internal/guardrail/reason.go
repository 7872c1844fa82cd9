// Package guardrail — reason.go
//
// Each guardrail is a pure predicate returning a typed failure reason
// rather than a bare error string, so callers composing guardrails (see
// internal/gate) can map failures onto gate return codes without
// string-matching.
package guardrail

import "fmt"

// Reason identifies which guardrail rejected a message.
type Reason string

const (
	ReasonMessageTooLarge       Reason = "message_too_large"
	ReasonParseFailed           Reason = "parse_failed"
	ReasonEmbeddingTooLong      Reason = "embedding_too_long"
	ReasonMissingProvenance     Reason = "missing_provenance"
	ReasonMissingContentDigest  Reason = "missing_content_digest"
	ReasonMissingSignature      Reason = "missing_signature"
	ReasonMissingPublicKey      Reason = "missing_public_key"
	ReasonInvalidPublicKey      Reason = "invalid_public_key"
	ReasonInvalidSignature      Reason = "invalid_signature"
	ReasonStaleTimestamp        Reason = "stale_timestamp"
	ReasonNonMonotonicTimestamp Reason = "non_monotonic_timestamp"
	ReasonChainHeightRegressed  Reason = "chain_height_regressed"
	ReasonInvalidPQSigLength    Reason = "invalid_pq_sig_length"
)

// Violation is the error type every guardrail predicate returns on
// rejection. It carries enough detail for operator-facing diagnostics
// without ever being logged by the gate itself.
type Violation struct {
	Reason Reason
	Detail string
}

func (v *Violation) Error() string {
	if v.Detail == "" {
		return fmt.Sprintf("guardrail: %s", v.Reason)
	}
	return fmt.Sprintf("guardrail: %s: %s", v.Reason, v.Detail)
}

func violation(r Reason, format string, args ...any) *Violation {
	return &Violation{Reason: r, Detail: fmt.Sprintf(format, args...)}
}
