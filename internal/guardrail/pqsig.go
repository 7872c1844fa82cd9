// Package guardrail — pqsig.go
package guardrail

// CheckPQSignatureLength enforces the post-quantum signature length bound.
// expectedLen of 0 is bootstrap mode: the field is not yet load-bearing,
// so any length (including absence) is accepted. Once expectedLen is
// nonzero, absence or an empty slice is still tolerated — a record
// produced before PQ signing was mandatory must not suddenly fail — but a
// present, non-empty signature of the wrong length is rejected.
func CheckPQSignatureLength(present bool, length, expectedLen int) error {
	if expectedLen == 0 {
		return nil
	}
	if !present || length == 0 {
		return nil
	}
	if length != expectedLen {
		return violation(ReasonInvalidPQSigLength, "got %d, want %d", length, expectedLen)
	}
	return nil
}
