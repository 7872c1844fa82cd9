// Package main — cmd/gate-sim/main.go
//
// gate-sim is the host-side substitute for a WASM embedding harness: it
// synthesises validly-signed SecurityRequest messages, calls gate_init
// once and then process_security_request in a tight loop, and reports
// latency percentiles and an outcome histogram. It does not call
// apply_signature_update. It carries no network or disk
// I/O — the gate has neither, and this harness models calling it
// in-process exactly as a host embedding would.
//
// Usage:
//
//	gate-sim [flags]
//	gate-sim -requests 100000 -origins 8 -seed 1
package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/octoreflex/sentrygate/internal/gate"
	"github.com/octoreflex/sentrygate/internal/gatemsg"
)

func main() {
	requests := flag.Int("requests", 100000, "number of process_security_request calls to simulate")
	origins := flag.Int("origins", 4, "number of distinct (origin_system, public_key) identities to rotate through")
	denyRate := flag.Float64("deny-rate", 0.1, "fraction of requests signed with the wrong key, to exercise DENY")
	seed := flag.Int64("seed", 1, "seed for origin rotation, wrong-key selection, and digest values")
	flag.Parse()

	if *origins < 1 || *origins > 8 {
		fmt.Fprintln(os.Stderr, "ERROR: -origins must be in [1, 8]")
		os.Exit(1)
	}
	if *denyRate < 0 || *denyRate > 1 {
		fmt.Fprintln(os.Stderr, "ERROR: -deny-rate must be in [0, 1]")
		os.Exit(1)
	}

	idents := make([]identity, *origins)
	for i := range idents {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: generate identity %d: %v\n", i, err)
			os.Exit(1)
		}
		idents[i] = identity{system: uint8(i + 1), pub: pub, priv: priv}
	}
	_, wrongPriv, _ := ed25519.GenerateKey(nil)

	clockNs := uint64(1_000_000_000)
	gate.RegisterClock(func() uint64 { return clockNs })
	if code := gate.Init(); code != gate.Allow {
		fmt.Fprintf(os.Stderr, "ERROR: gate_init returned %v\n", code)
		os.Exit(1)
	}

	latencies := make([]time.Duration, 0, *requests)
	outcomes := map[gate.Code]int{}

	rng := newRNG(uint64(*seed))
	for i := 0; i < *requests; i++ {
		id := idents[int(rng.next()%uint64(*origins))]
		height := uint64(i/(*origins)) + 1
		clockNs += 1_000_000 // 1ms per request, well under the 30s freshness window

		priv := id.priv
		if float64(rng.next()%1000)/1000.0 < *denyRate {
			priv = wrongPriv
		}

		buf := gatemsg.BuildSecurityRequest(gatemsg.Provenance{
			DigestLo: rng.next(), DigestHi: rng.next(),
			TimestampNs: clockNs, ChainHeight: height,
			OriginSystem: id.system, PublicKey: id.pub, PrivateKey: priv,
		})

		start := time.Now()
		code := gate.ProcessSecurityRequest(buf)
		latencies = append(latencies, time.Since(start))
		outcomes[code]++
	}

	report(latencies, outcomes, *requests)
}

type identity struct {
	system uint8
	pub    ed25519.PublicKey
	priv   ed25519.PrivateKey
}

// rng is a small deterministic splitmix64 generator. The gate's own
// guardrails are adversarial-input-focused, not randomness-quality
// focused, so a non-cryptographic generator is sufficient and keeps
// gate-sim runs reproducible across machines for a fixed -seed.
type rng struct{ state uint64 }

func newRNG(seed uint64) *rng { return &rng{state: seed + 0x9E3779B97F4A7C15} }

func (r *rng) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func report(latencies []time.Duration, outcomes map[gate.Code]int, total int) {
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	p50 := percentile(latencies, 0.50)
	p99 := percentile(latencies, 0.99)

	fmt.Printf("=== gate-sim ===\n")
	fmt.Printf("requests:     %d\n", total)
	fmt.Printf("mean latency: %v\n", sum/time.Duration(max(1, len(latencies))))
	fmt.Printf("p50 latency:  %v\n", p50)
	fmt.Printf("p99 latency:  %v\n", p99)
	fmt.Printf("\noutcomes:\n")
	for _, code := range []gate.Code{gate.Allow, gate.Deny, gate.Challenge, gate.Quarantine, gate.ErrSize, gate.ErrParse, gate.ErrOOM, gate.ErrState} {
		if n := outcomes[code]; n > 0 {
			fmt.Printf("  %-10s %8d  (%.2f%%)\n", code.String(), n, 100*float64(n)/float64(total))
		}
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
