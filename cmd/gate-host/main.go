// Package main — cmd/gate-host/main.go
//
// gate-host is the process that embeds the security gate and wires up
// everything around it: the host clock, the Prometheus metrics server,
// the read-only operator inspector, and the System 2 mTLS transport.
// Unlike the OCTOREFLEX agent entrypoint this descends from, there is
// no BPF, no kernel event processing, no escalation engine, and no
// gossip quorum — the gate needs none of it.
//
// Startup sequence:
//  1. Load and validate hostconfig from -config (default
//     /etc/sentrygate/hostconfig.yaml).
//  2. Initialise structured logger (zap, level/format from config).
//  3. Register the host monotonic clock and call gate_init.
//  4. Start the Prometheus metrics server.
//  5. Start the operator inspector socket, if enabled.
//  6. Start the System 2 mTLS gRPC server.
//  7. Block on SIGINT/SIGTERM for graceful shutdown.
//
// Shutdown sequence (on SIGINT/SIGTERM):
//  1. Cancel the root context (propagates to every server goroutine).
//  2. Wait up to 5s for servers to stop.
//  3. Flush the logger.
//  4. Exit 0.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/octoreflex/sentrygate/internal/gate"
	"github.com/octoreflex/sentrygate/internal/hostconfig"
	"github.com/octoreflex/sentrygate/internal/observability"
	"github.com/octoreflex/sentrygate/internal/operator"
	"github.com/octoreflex/sentrygate/internal/systemtwo"
)

func main() {
	configPath := flag.String("config", "/etc/sentrygate/hostconfig.yaml", "Path to hostconfig.yaml")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("sentrygate %s (commit=%s built=%s)\n",
			hostconfig.Version, hostconfig.GitCommit, hostconfig.BuildTime)
		os.Exit(0)
	}

	cfg, err := hostconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: config load failed: %v\n", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("sentrygate starting",
		zap.String("version", hostconfig.Version),
		zap.String("commit", hostconfig.GitCommit),
		zap.String("node_id", cfg.NodeID),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gate.RegisterClock(func() uint64 { return uint64(time.Now().UnixNano()) })
	if code := gate.Init(); code != gate.Allow {
		log.Fatal("gate_init failed", zap.String("code", code.String()))
	}
	log.Info("gate initialised")

	var wg sync.WaitGroup

	metrics := observability.NewMetrics()
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := metrics.ServeMetrics(ctx, cfg.Observability.MetricsAddr); err != nil {
			log.Error("metrics server error", zap.Error(err))
		}
	}()
	log.Info("metrics server started", zap.String("addr", cfg.Observability.MetricsAddr))

	wg.Add(1)
	go func() {
		defer wg.Done()
		refreshOccupancy(ctx, metrics)
	}()

	tally := operator.NewTally()

	if cfg.Operator.Enabled {
		opSrv := operator.NewServer(cfg.Operator.SocketPath, tally, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := opSrv.ListenAndServe(ctx); err != nil {
				log.Error("operator server error", zap.Error(err))
			}
		}()
		log.Info("operator socket started", zap.String("path", cfg.Operator.SocketPath))
	} else {
		log.Info("operator socket disabled")
	}

	s2Srv := systemtwo.NewServer(log, metrics, tally)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := systemtwo.ListenAndServe(
			ctx,
			cfg.SystemTwo.ListenAddr,
			cfg.SystemTwo.TLSCertFile,
			cfg.SystemTwo.TLSKeyFile,
			cfg.SystemTwo.TLSCAFile,
			s2Srv,
			log,
		); err != nil {
			log.Error("system2 server error", zap.Error(err))
		}
	}()
	log.Info("system2 server started", zap.String("addr", cfg.SystemTwo.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("all servers stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Warn("shutdown drain timeout — forcing exit")
	}

	log.Info("sentrygate shutdown complete")
}

// refreshOccupancy periodically copies the gate's read-only occupancy
// counters into the Prometheus gauges. The gate itself performs no I/O,
// so nothing pushes this on its own.
func refreshOccupancy(ctx context.Context, metrics *observability.Metrics) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			origins, fingerprints, initialised := gate.Snapshot()
			if !initialised {
				continue
			}
			metrics.RefreshOccupancy(len(origins), fingerprints)
		}
	}
}

func buildLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}
