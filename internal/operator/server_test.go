package operator

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/octoreflex/sentrygate/internal/gate"
)

func startTestServer(t *testing.T, tally *Tally) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "operator.sock")
	srv := NewServer(socketPath, tally, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = srv.ListenAndServe(ctx)
	}()

	// Wait for the socket to come up.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return socketPath
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("operator socket %s never came up", socketPath)
	return ""
}

func roundTrip(t *testing.T, socketPath string, req Request) Response {
	t.Helper()
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	return resp
}

func TestStatusCommand(t *testing.T) {
	gate.RegisterClock(func() uint64 { return 1 })
	gate.Init()
	tally := NewTally()
	tally.Record(gate.Allow)
	tally.Record(gate.Allow)
	tally.Record(gate.Deny)
	socketPath := startTestServer(t, tally)

	resp := roundTrip(t, socketPath, Request{Cmd: "status"})
	if !resp.OK {
		t.Fatalf("status failed: %s", resp.Error)
	}
	if !resp.Initialised {
		t.Fatal("expected initialised = true after gate.Init")
	}
	if resp.Outcomes["ALLOW"] != 2 || resp.Outcomes["DENY"] != 1 {
		t.Fatalf("outcomes = %v, want ALLOW:2 DENY:1", resp.Outcomes)
	}
}

func TestListOriginsCommand(t *testing.T) {
	gate.RegisterClock(func() uint64 { return 1 })
	gate.Init()
	socketPath := startTestServer(t, nil)

	resp := roundTrip(t, socketPath, Request{Cmd: "list_origins"})
	if !resp.OK {
		t.Fatalf("list_origins failed: %s", resp.Error)
	}
	if len(resp.Origins) != 0 {
		t.Fatalf("origins = %v, want empty on a fresh gate", resp.Origins)
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	gate.RegisterClock(func() uint64 { return 1 })
	gate.Init()
	socketPath := startTestServer(t, nil)

	resp := roundTrip(t, socketPath, Request{Cmd: "reset"})
	if resp.OK {
		t.Fatal("expected unknown command to be rejected")
	}
}
