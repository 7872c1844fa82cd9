// Package guardrail — chainheight.go
package guardrail

// CheckChainHeight enforces monotonicity of witness_chain_height
// independently of the Ed25519 signature, since the field lives outside
// the signed tuple by design (a downstream hardware authority may bump it
// without re-signing). lastSeen of 0 means this origin has never
// committed a height before; the first-ever message is accepted for any
// current value, including 0.
func CheckChainHeight(current, lastSeen uint64) error {
	if lastSeen != 0 && current <= lastSeen {
		return violation(ReasonChainHeightRegressed, "height %d <= last seen %d", current, lastSeen)
	}
	return nil
}
