// Package guardrail — embedding.go
package guardrail

// CheckEmbeddingLength enforces the post-parse element-count bound on an
// optional DomainContext embedding vector. present must be false when the
// field is absent from the message; length is meaningless in that case.
func CheckEmbeddingLength(present bool, length, maxLen int) error {
	if !present {
		return nil
	}
	if length > maxLen {
		return violation(ReasonEmbeddingTooLong, "length %d exceeds cap %d", length, maxLen)
	}
	return nil
}
