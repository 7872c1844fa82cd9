// Package vectors — store.go
//
// BoltDB-backed store for named conformance scenarios: the canonical
// baseline set (canonical.go) plus operator-authored fixtures.
//
// This store is developer/operator tooling, not part of the gate
// proper: the gate itself holds nothing on disk. A scenario is a
// sequence of entry-point calls against a freshly-initialised gate,
// each with an expected outcome code, so that cmd/gate-vectors can
// replay a whole scenario — including multi-step ones like
// accept-then-replay — in one command.
//
// Schema (BoltDB bucket layout):
//
//	/vectors
//	    key:   scenario name (e.g. "replay", "chain-regression")
//	    value: JSON-encoded Vector
package vectors

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/octoreflex/sentrygate/internal/gatemsg"
	"github.com/octoreflex/sentrygate/internal/schema"
)

const (
	// SchemaVersion is the current vector-store schema version.
	SchemaVersion = "1"

	bucketVectors = "vectors"
	bucketMeta    = "meta"
)

// StepKind distinguishes the two ABI message shapes a step can drive.
type StepKind string

const (
	StepSecurityRequest StepKind = "request"
	StepSignatureUpdate StepKind = "update"
)

// Step is a single entry-point call within a Vector: the clock value in
// effect, the message to build and sign, and the outcome code the gate
// is expected to return.
type Step struct {
	Kind          StepKind                 `json:"kind"`
	NowNs         uint64                   `json:"now_ns"`
	Provenance    gatemsg.Provenance       `json:"provenance"`
	NewSignatures []schema.Xxh3DigestValue `json:"new_signatures,omitempty"`
	ExpectedCode  uint32                   `json:"expected_code"`
	Note          string                   `json:"note,omitempty"`
}

// Vector is a named, ordered sequence of Steps replayed against one
// freshly-initialised gate instance.
type Vector struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Steps       []Step    `json:"steps"`
	CreatedAt   time.Time `json:"created_at"`
}

// DB wraps a BoltDB instance holding the vector fixture set.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the BoltDB database at path, initialising
// buckets and schema metadata.
func Open(path string) (*DB, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("vectors: bolt.Open(%q): %w", path, err)
	}

	d := &DB{db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("CreateBucketIfNotExists(%q): %w", name, err)
			}
		}
		meta := tx.Bucket([]byte(bucketMeta))
		if meta.Get([]byte("schema_version")) == nil {
			return meta.Put([]byte("schema_version"), []byte(SchemaVersion))
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("vectors: database initialisation failed: %w", err)
	}

	return d, nil
}

// Close closes the underlying BoltDB file.
func (d *DB) Close() error {
	return d.db.Close()
}

// Put writes or overwrites a named Vector.
func (d *DB) Put(v Vector) error {
	if v.Name == "" {
		return fmt.Errorf("vectors: Put: name must not be empty")
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("vectors: Put marshal: %w", err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketVectors)).Put([]byte(v.Name), data)
	})
}

// Get retrieves the Vector with the given name. Returns (nil, nil) if
// no such vector exists.
func (d *DB) Get(name string) (*Vector, error) {
	var v Vector
	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketVectors)).Get([]byte(name))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &v)
	})
	if err != nil {
		return nil, fmt.Errorf("vectors: Get(%q): %w", name, err)
	}
	if !found {
		return nil, nil
	}
	return &v, nil
}

// List returns the names of every stored vector, sorted.
func (d *DB) List() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketVectors)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("vectors: List: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a named vector. Deleting a name that does not exist is
// not an error.
func (d *DB) Delete(name string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketVectors)).Delete([]byte(name))
	})
}
