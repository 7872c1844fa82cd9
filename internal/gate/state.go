// Package gate — state.go
//
// Gate state: the fixed-size origin ring and bounded fingerprint store,
// plus the quantised memory accumulator that is wired in but never
// consulted by the decision path.
package gate

import (
	"bytes"

	"github.com/octoreflex/sentrygate/internal/gateconfig"
	"github.com/octoreflex/sentrygate/internal/guardrail"
	"github.com/octoreflex/sentrygate/internal/quantmem"
)

// origin is one ring-slot: the last-seen timestamp and chain height for
// a distinct (system, public key) pair.
type origin struct {
	system        uint8
	publicKey     [32]byte
	lastTimestamp uint64
	lastHeight    uint64
	occupied      bool
}

// State is the gate's entire mutable footprint: the origin ring, the
// fingerprint store, and the quantised memory accumulator. It is created
// once by Init and mutated only by the request/update paths in entry.go.
// The fingerprint store is a fixed-array ring (fpHead is the oldest
// entry, fpCount the live length) so steady-state FIFO eviction never
// touches the allocator.
type State struct {
	origins      [gateconfig.MaxOrigins]origin
	nextEvict    int // insertion-order slot to overwrite when the ring is full
	fingerprints [gateconfig.MaxFingerprints]fingerprint
	fpHead       int
	fpCount      int
	quantMem     quantmem.Accumulator
}

type fingerprint struct {
	lo, hi uint64
}

// NewState allocates a fresh, empty gate state. Both rings are fixed
// arrays inside the struct, so no heap growth occurs past this call,
// per the gate's no-allocation-after-init non-goal.
func NewState() *State {
	return &State{
		quantMem: quantmem.NewPiAccumulator(gateconfig.QuantMemDim),
	}
}

// findOrigin returns the slot index matching (system, pubKey), or -1 if
// no occupied slot matches. A linear scan over MaxOrigins (8) entries is
// fixed-cost work, not a performance concern at this scale.
func (s *State) findOrigin(system uint8, pubKey [32]byte) int {
	for i := range s.origins {
		o := &s.origins[i]
		if o.occupied && o.system == system && bytes.Equal(o.publicKey[:], pubKey[:]) {
			return i
		}
	}
	return -1
}

// lookupOrigin returns the last committed (timestamp, height) for
// (system, pubKey), or (0, 0) if this is the first message ever seen
// from that origin.
func (s *State) lookupOrigin(system uint8, pubKey [32]byte) (lastTimestamp, lastHeight uint64) {
	i := s.findOrigin(system, pubKey)
	if i < 0 {
		return 0, 0
	}
	return s.origins[i].lastTimestamp, s.origins[i].lastHeight
}

// upsertOrigin commits a new (timestamp, height) observation for
// (system, pubKey). A matching occupied slot is overwritten in place;
// otherwise the first free slot is used; if the ring is already full of
// MaxOrigins distinct origins, the oldest-inserted slot is evicted
// (FIFO by insertion order, independent of how recently it was used).
func (s *State) upsertOrigin(system uint8, pubKey [32]byte, timestampNs, height uint64) {
	if i := s.findOrigin(system, pubKey); i >= 0 {
		s.origins[i].lastTimestamp = timestampNs
		s.origins[i].lastHeight = height
		return
	}
	for i := range s.origins {
		if !s.origins[i].occupied {
			s.origins[i] = origin{
				system:        system,
				publicKey:     pubKey,
				lastTimestamp: timestampNs,
				lastHeight:    height,
				occupied:      true,
			}
			return
		}
	}
	// Ring is full: evict by insertion order.
	i := s.nextEvict
	s.origins[i] = origin{
		system:        system,
		publicKey:     pubKey,
		lastTimestamp: timestampNs,
		lastHeight:    height,
		occupied:      true,
	}
	s.nextEvict = (s.nextEvict + 1) % gateconfig.MaxOrigins
}

// addFingerprint inserts fp into the trusted fingerprint store if it is
// not already present. When the store is at capacity, the oldest entry
// (FIFO) is overwritten in place.
func (s *State) addFingerprint(lo, hi uint64) {
	for i := 0; i < s.fpCount; i++ {
		fp := s.fingerprintAt(i)
		if guardrail.DigestEq(fp.lo, fp.hi, lo, hi) {
			return
		}
	}
	if s.fpCount == gateconfig.MaxFingerprints {
		s.fingerprints[s.fpHead] = fingerprint{lo: lo, hi: hi}
		s.fpHead = (s.fpHead + 1) % gateconfig.MaxFingerprints
		return
	}
	s.fingerprints[(s.fpHead+s.fpCount)%gateconfig.MaxFingerprints] = fingerprint{lo: lo, hi: hi}
	s.fpCount++
}

// fingerprintAt returns the i-th live fingerprint in FIFO order, 0 being
// the oldest.
func (s *State) fingerprintAt(i int) fingerprint {
	return s.fingerprints[(s.fpHead+i)%gateconfig.MaxFingerprints]
}

// OriginCount returns the number of currently-occupied origin slots.
// Exposed for the operator inspector and for tests.
func (s *State) OriginCount() int {
	n := 0
	for i := range s.origins {
		if s.origins[i].occupied {
			n++
		}
	}
	return n
}

// FingerprintCount returns the number of trusted digests currently held.
func (s *State) FingerprintCount() int {
	return s.fpCount
}

// Origins returns a snapshot of occupied origin slots, for the operator
// inspector's list_origins command. Order matches internal ring order,
// not insertion or access order. KeyPrefix carries only the first four
// bytes of the public key — enough to tell origins apart while
// debugging, without handing key material to the inspection channel.
type OriginSnapshot struct {
	System        uint8
	KeyPrefix     [4]byte
	LastTimestamp uint64
	LastHeight    uint64
}

func (s *State) Origins() []OriginSnapshot {
	out := make([]OriginSnapshot, 0, gateconfig.MaxOrigins)
	for i := range s.origins {
		if s.origins[i].occupied {
			snap := OriginSnapshot{
				System:        s.origins[i].system,
				LastTimestamp: s.origins[i].lastTimestamp,
				LastHeight:    s.origins[i].lastHeight,
			}
			copy(snap.KeyPrefix[:], s.origins[i].publicKey[:4])
			out = append(out, snap)
		}
	}
	return out
}
