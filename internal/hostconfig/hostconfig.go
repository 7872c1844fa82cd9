// Package hostconfig provides configuration loading and validation for the
// host process that embeds the security gate.
//
// Configuration file: /etc/sentrygate/hostconfig.yaml (default)
// Schema version: 1
//
// This package deliberately carries none of the gate's own compile-time
// constants (gateconfig.MaxMessageBytes, FreshnessWindowNS, and so on) —
// those are fixed per the gate's contract so every embedding behaves
// identically regardless of how the surrounding host binary is
// configured. What lives here is wiring for the processes around the
// gate: where the operator inspector listens, where metrics are
// exported, and how the System 2 transport authenticates its peer.
//
// Validation:
//   - All required fields must be present.
//   - File paths must be absolute.
//   - Invalid config on startup: the host binary refuses to start.
package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Version, GitCommit, BuildTime hold placeholder values unless overridden
// at build time via -ldflags -X.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Config is the root configuration structure for the host process.
type Config struct {
	// SchemaVersion must be "1"; Validate rejects any other value.
	SchemaVersion string `yaml:"schema_version"`

	// NodeID identifies this host process in operator output and metrics
	// labels. Default: hostname.
	NodeID string `yaml:"node_id"`

	Observability ObservabilityConfig `yaml:"observability"`
	Operator      OperatorConfig      `yaml:"operator"`
	SystemTwo     SystemTwoConfig     `yaml:"system_two"`
	Vectors       VectorsConfig       `yaml:"vectors"`
}

// ObservabilityConfig holds metrics export parameters.
type ObservabilityConfig struct {
	// MetricsAddr is the Prometheus metrics HTTP bind address.
	// Default: 127.0.0.1:9091.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogFormat controls the log output format (json, console).
	LogFormat string `yaml:"log_format"`
}

// OperatorConfig holds the read-only operator inspector's socket settings.
type OperatorConfig struct {
	// SocketPath is the Unix domain socket the inspector listens on.
	// Default: /run/sentrygate/operator.sock.
	SocketPath string `yaml:"socket_path"`

	// Enabled controls whether the operator socket is started at all.
	Enabled bool `yaml:"enabled"`
}

// SystemTwoConfig holds the System 2 signature-update transport's
// listen address and mTLS material.
type SystemTwoConfig struct {
	// ListenAddr is the gRPC listen address for inbound SignatureUpdate
	// pushes. Default: 0.0.0.0:9443.
	ListenAddr string `yaml:"listen_addr"`

	// TLSCertFile, TLSKeyFile are this host's own Ed25519 certificate
	// and key (PEM), presented to System 2 during the TLS handshake.
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`

	// TLSCAFile is the CA certificate used to authenticate the System 2
	// peer certificate (mutual TLS).
	TLSCAFile string `yaml:"tls_ca_file"`

	// HandshakeTimeout must be positive for Validate to accept the config.
	// systemtwo.ListenAndServe does not take this value, so it does not
	// bound the TLS handshake.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// VectorsConfig holds the gate-vectors developer fixture store's
// settings. This is tooling for replaying conformance scenarios during
// development, not a gate capability — the gate itself persists nothing.
type VectorsConfig struct {
	// DBPath is the absolute path to the BoltDB fixture file.
	DBPath string `yaml:"db_path"`
}

// Defaults returns a Config populated with all default values.
func Defaults() Config {
	hostname, _ := os.Hostname()
	return Config{
		SchemaVersion: "1",
		NodeID:        hostname,
		Observability: ObservabilityConfig{
			MetricsAddr: "127.0.0.1:9091",
			LogLevel:    "info",
			LogFormat:   "json",
		},
		Operator: OperatorConfig{
			Enabled:    true,
			SocketPath: "/run/sentrygate/operator.sock",
		},
		SystemTwo: SystemTwoConfig{
			ListenAddr:       "0.0.0.0:9443",
			TLSCertFile:      "/etc/sentrygate/tls/host.crt",
			TLSKeyFile:       "/etc/sentrygate/tls/host.key",
			TLSCAFile:        "/etc/sentrygate/tls/system-two-ca.crt",
			HandshakeTimeout: 10 * time.Second,
		},
		Vectors: VectorsConfig{
			DBPath: DefaultVectorsDBPath,
		},
	}
}

// DefaultVectorsDBPath is the default location of the gate-vectors
// fixture store.
const DefaultVectorsDBPath = "/var/lib/sentrygate/vectors.db"

// Load reads and validates a config file from the given path, merging
// file values over Defaults().
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostconfig.Load: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hostconfig.Load: parse %q: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("hostconfig.Load: validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks all config fields for correctness, accumulating every
// violation found rather than failing on the first.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.SchemaVersion != "1" {
		errs = append(errs, fmt.Sprintf("schema_version must be \"1\", got %q", cfg.SchemaVersion))
	}
	if cfg.NodeID == "" {
		errs = append(errs, "node_id must not be empty")
	}
	if cfg.Operator.Enabled && cfg.Operator.SocketPath == "" {
		errs = append(errs, "operator.socket_path must not be empty when operator.enabled is true")
	}
	if cfg.Operator.SocketPath != "" && !filepath.IsAbs(cfg.Operator.SocketPath) {
		errs = append(errs, fmt.Sprintf("operator.socket_path must be absolute, got %q", cfg.Operator.SocketPath))
	}
	if cfg.SystemTwo.ListenAddr == "" {
		errs = append(errs, "system_two.listen_addr must not be empty")
	}
	if cfg.SystemTwo.TLSCertFile == "" || cfg.SystemTwo.TLSKeyFile == "" || cfg.SystemTwo.TLSCAFile == "" {
		errs = append(errs, "system_two.tls_cert_file, tls_key_file, and tls_ca_file are required")
	}
	for _, f := range []struct{ key, path string }{
		{"system_two.tls_cert_file", cfg.SystemTwo.TLSCertFile},
		{"system_two.tls_key_file", cfg.SystemTwo.TLSKeyFile},
		{"system_two.tls_ca_file", cfg.SystemTwo.TLSCAFile},
	} {
		if f.path != "" && !filepath.IsAbs(f.path) {
			errs = append(errs, fmt.Sprintf("%s must be absolute, got %q", f.key, f.path))
		}
	}
	if cfg.SystemTwo.HandshakeTimeout <= 0 {
		errs = append(errs, "system_two.handshake_timeout must be > 0")
	}
	if cfg.Vectors.DBPath != "" && !filepath.IsAbs(cfg.Vectors.DBPath) {
		errs = append(errs, fmt.Sprintf("vectors.db_path must be absolute, got %q", cfg.Vectors.DBPath))
	}

	if len(errs) > 0 {
		return fmt.Errorf("hostconfig validation errors:\n  - %s", joinStrings(errs, "\n  - "))
	}
	return nil
}

func joinStrings(ss []string, sep string) string {
	if len(ss) == 0 {
		return ""
	}
	result := ss[0]
	for _, s := range ss[1:] {
		result += sep + s
	}
	return result
}
