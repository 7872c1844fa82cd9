// Package main — cmd/gate-vectors/main.go
//
// gate-vectors stores and replays named conformance scenarios (the
// canonical baseline set plus operator-authored fixtures) in a small
// BoltDB file. This is developer/operator tooling: the gate itself
// persists nothing.
//
// Usage:
//
//	gate-vectors -db vectors.db seed
//	gate-vectors -db vectors.db list
//	gate-vectors -db vectors.db show chain-regression
//	gate-vectors -db vectors.db run chain-regression
//	gate-vectors -db vectors.db run-all
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/octoreflex/sentrygate/internal/hostconfig"
	"github.com/octoreflex/sentrygate/internal/vectors"
)

func main() {
	dbPath := flag.String("db", hostconfig.DefaultVectorsDBPath, "path to the BoltDB vector fixture file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	db, err := vectors.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch args[0] {
	case "seed":
		err = cmdSeed(db)
	case "list":
		err = cmdList(db)
	case "show":
		err = cmdShow(db, args[1:])
	case "run":
		err = cmdRun(db, args[1:])
	case "run-all":
		err = cmdRunAll(db)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gate-vectors [-db path] <seed|list|show NAME|run NAME|run-all>")
}

func cmdSeed(db *vectors.DB) error {
	canon, err := vectors.Canonical()
	if err != nil {
		return fmt.Errorf("build canonical vectors: %w", err)
	}
	for _, v := range canon {
		if err := db.Put(v); err != nil {
			return fmt.Errorf("seed %s: %w", v.Name, err)
		}
		fmt.Printf("seeded %s: %s\n", v.Name, v.Description)
	}
	return nil
}

func cmdList(db *vectors.DB) error {
	names, err := db.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("(no vectors stored; run `gate-vectors seed` first)")
		return nil
	}
	for _, name := range names {
		v, err := db.Get(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s (%d step(s))\n", v.Name, v.Description, len(v.Steps))
	}
	return nil
}

func cmdShow(db *vectors.DB, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show requires exactly one vector name")
	}
	v, err := db.Get(args[0])
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("no such vector %q", args[0])
	}
	fmt.Printf("%s: %s\n", v.Name, v.Description)
	for i, s := range v.Steps {
		fmt.Printf("  [%d] kind=%s now_ns=%d expected_code=%#x", i, s.Kind, s.NowNs, s.ExpectedCode)
		if s.Note != "" {
			fmt.Printf(" note=%q", s.Note)
		}
		fmt.Println()
	}
	return nil
}

func cmdRun(db *vectors.DB, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("run requires exactly one vector name")
	}
	v, err := db.Get(args[0])
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("no such vector %q", args[0])
	}
	if !runAndReport(*v) {
		return fmt.Errorf("vector %q failed", v.Name)
	}
	return nil
}

func cmdRunAll(db *vectors.DB) error {
	names, err := db.List()
	if err != nil {
		return err
	}
	failed := 0
	for _, name := range names {
		v, err := db.Get(name)
		if err != nil {
			return err
		}
		if !runAndReport(*v) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d vectors failed", failed, len(names))
	}
	return nil
}

// runAndReport replays v, prints a PASS/FAIL line per step, and returns
// whether every step passed. It is a plain bool rather than an error so
// run-all can keep going and report a full summary instead of stopping
// at the first failing vector.
func runAndReport(v vectors.Vector) bool {
	results := vectors.Run(v)
	allPassed := true
	fmt.Printf("%s: %s\n", v.Name, v.Description)
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("  [%d] %s  expected=%#x got=%#x", r.Index, status, r.Expected, r.Got)
		if r.Note != "" {
			fmt.Printf("  (%s)", r.Note)
		}
		fmt.Println()
	}
	return allPassed
}
