package hostconfig

import (
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Defaults() should validate cleanly: %v", err)
	}
}

func TestValidateRejectsRelativeSocketPath(t *testing.T) {
	cfg := Defaults()
	cfg.Operator.SocketPath = "relative/path.sock"
	if err := Validate(&cfg); err == nil {
		t.Fatal("expected rejection of relative socket path")
	}
}

func TestValidateRejectsMissingSystemTwoTLS(t *testing.T) {
	cfg := Defaults()
	cfg.SystemTwo.TLSCertFile = ""
	cfg.SystemTwo.TLSKeyFile = ""
	cfg.SystemTwo.TLSCAFile = ""
	if err := Validate(&cfg); err == nil {
		t.Fatal("expected rejection of missing mTLS material")
	}
}

func TestValidateRejectsBadSchemaVersion(t *testing.T) {
	cfg := Defaults()
	cfg.SchemaVersion = "2"
	if err := Validate(&cfg); err == nil {
		t.Fatal("expected rejection of unsupported schema version")
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.SchemaVersion = ""
	cfg.NodeID = ""
	cfg.SystemTwo.ListenAddr = ""
	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"schema_version", "node_id", "system_two.listen_addr"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not report %s", err, want)
		}
	}
}
