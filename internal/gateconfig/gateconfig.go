// Package gateconfig — gateconfig.go
//
// Compile-time constants for the security gate. These values are part of
// the gate's contract: every embedding of the gate behaves identically
// regardless of how the surrounding host process is configured. Host-level
// settings (socket paths, listen addresses) live in hostconfig, not here.
package gateconfig

const (
	// MaxMessageBytes bounds the raw, pre-parse size of any message the
	// gate will accept. Anything larger is rejected before a single byte
	// is handed to the schema verifier.
	MaxMessageBytes = 65536

	// MaxVerifierDepth bounds the nesting depth the structural verifier
	// will walk through table/vector indirection.
	MaxVerifierDepth = 16

	// MaxVerifierTables bounds the number of distinct tables the
	// structural verifier will visit while walking a message.
	MaxVerifierTables = 100

	// MaxEmbeddingLen bounds the element count of a DomainContext
	// embedding vector once the message has been parsed.
	MaxEmbeddingLen = 1024

	// FreshnessWindowNS is the maximum age, in nanoseconds, of a
	// provenance timestamp before it is considered stale.
	FreshnessWindowNS = 30_000_000_000

	// MaxOrigins bounds the number of distinct (origin_system, public_key)
	// pairs the gate tracks for replay protection.
	MaxOrigins = 8

	// MaxFingerprints bounds the number of trusted content digests the
	// gate holds, seeded only via apply_signature_update.
	MaxFingerprints = 256

	// ExpectedPQSigLen is the required length of a post-quantum signature
	// attached to a provenance record. Zero means bootstrap mode: any
	// length (including absence) is accepted.
	ExpectedPQSigLen = 0

	// QuantMemDim is the fixed dimensionality of the quantised memory
	// accumulator.
	QuantMemDim = 16
)
