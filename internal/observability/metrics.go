// Package observability — metrics.go
//
// Prometheus metrics for the sentrygate host process.
//
// Endpoint: GET /metrics on 127.0.0.1:9091 (configurable).
// Format: Prometheus text exposition format (OpenMetrics compatible).
// Bind: loopback only — no external exposure.
//
// Metric naming convention: sentrygate_<subsystem>_<name>_<unit>
//
// All metrics are registered on a dedicated prometheus.Registry (not the
// default global registry) to avoid collisions with other instrumented
// libraries in the same process.
//
// The gate package itself performs no I/O and touches none of this — the
// host wrapper calls Record after every ProcessSecurityRequest or
// ApplySignatureUpdate call, passing the returned gate.Code, and
// periodically refreshes the two occupancy gauges from the gate's
// read-only gate.Snapshot() accessor.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octoreflex/sentrygate/internal/gate"
)

// Metrics holds all Prometheus metric descriptors for the host process.
type Metrics struct {
	registry *prometheus.Registry

	// OutcomesTotal counts every gate entry-point call, by outcome.
	// Labels: outcome (allow, deny, challenge, quarantine, err_size,
	// err_parse, err_oom, err_state).
	OutcomesTotal *prometheus.CounterVec

	// OriginOccupancy is the current number of occupied origin-ring
	// slots (0..gateconfig.MaxOrigins).
	OriginOccupancy prometheus.Gauge

	// FingerprintOccupancy is the current number of trusted fingerprints
	// held (0..gateconfig.MaxFingerprints).
	FingerprintOccupancy prometheus.Gauge

	// HostUptimeSeconds is the number of seconds since the host process
	// started.
	HostUptimeSeconds prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates and registers all sentrygate host Prometheus metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		OutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentrygate",
			Subsystem: "gate",
			Name:      "outcomes_total",
			Help:      "Total gate entry-point calls, by returned outcome code.",
		}, []string{"outcome"}),

		OriginOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentrygate",
			Subsystem: "gate",
			Name:      "origin_occupancy",
			Help:      "Current number of occupied origin-ring slots.",
		}),

		FingerprintOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentrygate",
			Subsystem: "gate",
			Name:      "fingerprint_occupancy",
			Help:      "Current number of trusted fingerprints held.",
		}),

		HostUptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentrygate",
			Subsystem: "host",
			Name:      "uptime_seconds",
			Help:      "Number of seconds since the host process started.",
		}),
	}

	reg.MustRegister(
		m.OutcomesTotal,
		m.OriginOccupancy,
		m.FingerprintOccupancy,
		m.HostUptimeSeconds,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// outcomeLabel maps a gate.Code to its metric label.
func outcomeLabel(code gate.Code) string {
	switch code {
	case gate.Allow:
		return "allow"
	case gate.Deny:
		return "deny"
	case gate.Challenge:
		return "challenge"
	case gate.Quarantine:
		return "quarantine"
	case gate.ErrSize:
		return "err_size"
	case gate.ErrParse:
		return "err_parse"
	case gate.ErrOOM:
		return "err_oom"
	case gate.ErrState:
		return "err_state"
	default:
		return "unknown"
	}
}

// Record increments the outcome counter for a single gate entry-point
// call. The gate itself never calls this — it performs no I/O — this is
// invoked by the host wrapper after the call returns.
func (m *Metrics) Record(code gate.Code) {
	m.OutcomesTotal.WithLabelValues(outcomeLabel(code)).Inc()
}

// RefreshOccupancy updates the two gate state gauges. Call periodically
// or after every state-mutating call; it only sets two gauges.
func (m *Metrics) RefreshOccupancy(origins, fingerprints int) {
	m.OriginOccupancy.Set(float64(origins))
	m.FingerprintOccupancy.Set(float64(fingerprints))
}

// ServeMetrics starts the Prometheus HTTP metrics server on the given
// address. Blocks until ctx is cancelled or the server fails.
func (m *Metrics) ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go m.updateUptime(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	}
	return nil
}

func (m *Metrics) updateUptime(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.HostUptimeSeconds.Set(time.Since(m.startTime).Seconds())
		case <-ctx.Done():
			return
		}
	}
}
