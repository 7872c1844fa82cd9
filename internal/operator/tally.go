// Package operator — tally.go
package operator

import (
	"sync"

	"github.com/octoreflex/sentrygate/internal/gate"
)

// Tally is a host-side count of gate outcomes, keyed by code. The gate
// itself never records anything — callers that invoke an entry point
// (the System 2 transport, a host embedding loop) record the returned
// code here so the operator inspector can report an outcome histogram.
// Safe for concurrent use; the host-side servers run goroutines even
// though the gate does not.
type Tally struct {
	mu     sync.Mutex
	counts map[gate.Code]uint64
}

// NewTally creates an empty outcome tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[gate.Code]uint64)}
}

// Record counts one entry-point call that returned code.
func (t *Tally) Record(code gate.Code) {
	t.mu.Lock()
	t.counts[code]++
	t.mu.Unlock()
}

// Snapshot returns the histogram keyed by the codes' string names.
func (t *Tally) Snapshot() map[string]uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]uint64, len(t.counts))
	for code, n := range t.counts {
		out[code.String()] = n
	}
	return out
}
