package vectors

import (
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/octoreflex/sentrygate/internal/gate"
	"github.com/octoreflex/sentrygate/internal/gatemsg"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	v := Vector{
		Name:        "operator-fixture",
		Description: "single accepted request",
		Steps: []Step{{
			Kind:  StepSecurityRequest,
			NowNs: 60_000_000_000,
			Provenance: gatemsg.Provenance{
				DigestLo: 1, DigestHi: 2, TimestampNs: 59_000_000_000,
				ChainHeight: 1, OriginSystem: 7,
				PublicKey: pub, PrivateKey: priv,
			},
			ExpectedCode: uint32(gate.Allow),
		}},
	}
	if err := db.Put(v); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := db.Get("operator-fixture")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a stored vector")
	}
	if got.Description != v.Description || len(got.Steps) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("Put should stamp CreatedAt when zero")
	}

	names, err := db.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "operator-fixture" {
		t.Fatalf("List = %v, want [operator-fixture]", names)
	}

	if err := db.Delete("operator-fixture"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = db.Get("operator-fixture")
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got != nil {
		t.Fatal("vector still present after Delete")
	}
}

func TestGetMissingVectorIsNotAnError(t *testing.T) {
	db := openTestDB(t)
	v, err := db.Get("no-such-vector")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Fatalf("Get = %+v, want nil for a missing name", v)
	}
}

func TestPutRejectsEmptyName(t *testing.T) {
	db := openTestDB(t)
	if err := db.Put(Vector{}); err == nil {
		t.Fatal("expected rejection of an unnamed vector")
	}
}

func TestCanonicalScenariosAllPass(t *testing.T) {
	canon, err := Canonical()
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if len(canon) != 6 {
		t.Fatalf("canonical vector count = %d, want 6", len(canon))
	}
	for _, v := range canon {
		results := Run(v)
		for _, r := range results {
			if !r.Passed {
				t.Errorf("%s step %d: expected %#x, got %#x (%s)", v.Name, r.Index, r.Expected, r.Got, r.Note)
			}
		}
	}
}

func TestRunReinitialisesGateBetweenVectors(t *testing.T) {
	canon, err := Canonical()
	if err != nil {
		t.Fatal(err)
	}
	// Running the accept scenario twice must pass both times: if the second Run saw the
	// first Run's origin record, the repeated request would be denied as
	// non-monotonic instead.
	for i := 0; i < 2; i++ {
		for _, r := range Run(canon[0]) {
			if !r.Passed {
				t.Fatalf("run %d step %d: expected %#x, got %#x", i, r.Index, r.Expected, r.Got)
			}
		}
	}
}
