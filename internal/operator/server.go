// Package operator — server.go
//
// Unix domain socket server exposing read-only gate-state inspection.
//
// Protocol: newline-delimited JSON over a Unix domain socket.
// Socket path: /run/sentrygate/operator.sock (configurable).
// Permissions: 0600, owned by root. Only root can connect.
//
// Commands (JSON request → JSON response):
//
//	{"cmd":"status"}
//	  → Returns origin-ring occupancy, fingerprint-store size, whether
//	    the gate has been initialised, and a histogram of outcome codes
//	    recorded by the host-side callers.
//	  → Response: {"ok":true,"initialised":true,"origin_count":3,"fingerprint_count":128,"outcomes":{"ALLOW":100,"DENY":3}}
//
//	{"cmd":"list_origins"}
//	  → Returns each occupied origin slot: origin_system, a 4-byte hex
//	    prefix of the public key (never the key itself — enough to tell
//	    origins apart while debugging, nothing more), last_timestamp_ns,
//	    and last_chain_height.
//	  → Response: {"ok":true,"origins":[{"origin_system":7,"key_prefix":"9f3a01c2","last_timestamp_ns":59000000000,"last_chain_height":1},...]}
//
// There is no mutating command. Unlike earlier OCTOREFLEX operator
// sockets that exposed reset/pin/unpin, this inspector cannot change
// gate state — the gate's invariants may only be changed through its two
// authenticated entry points (process_security_request,
// apply_signature_update). This file intentionally has no write path.
//
// Security:
//   - Socket is created with 0600 permissions; only root can connect.
//   - Each connection is handled in a separate goroutine.
//   - Max concurrent connections: 4 (operator use only, not high-throughput).
//   - Max request size: 4096 bytes (prevents memory exhaustion).
//   - Connection timeout: 10s read, 10s write.
package operator

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/octoreflex/sentrygate/internal/gate"
)

const (
	maxConcurrentConns = 4
	maxRequestBytes    = 4096
	connTimeout        = 10 * time.Second
)

// Request is the JSON structure for operator commands.
type Request struct {
	Cmd string `json:"cmd"` // status | list_origins
}

// OriginView is one occupied origin slot, as exposed to operators. It
// never carries the public key itself — only a 4-byte hex prefix for
// telling origins apart while debugging.
type OriginView struct {
	OriginSystem    uint8  `json:"origin_system"`
	KeyPrefix       string `json:"key_prefix"`
	LastTimestampNs uint64 `json:"last_timestamp_ns"`
	LastChainHeight uint64 `json:"last_chain_height"`
}

// Response is the JSON structure for operator command responses.
type Response struct {
	OK               bool              `json:"ok"`
	Error            string            `json:"error,omitempty"`
	Initialised      bool              `json:"initialised,omitempty"`
	OriginCount      int               `json:"origin_count,omitempty"`
	FingerprintCount int               `json:"fingerprint_count,omitempty"`
	Outcomes         map[string]uint64 `json:"outcomes,omitempty"`
	Origins          []OriginView      `json:"origins,omitempty"`
}

// Server is the operator Unix domain socket server.
type Server struct {
	socketPath string
	log        *zap.Logger
	tally      *Tally
	sem        chan struct{}
}

// NewServer creates an operator Server bound to socketPath. tally may be
// nil when no host-side caller records outcomes; status then reports no
// histogram.
func NewServer(socketPath string, tally *Tally, log *zap.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		log:        log,
		tally:      tally,
		sem:        make(chan struct{}, maxConcurrentConns),
	}
}

// ListenAndServe starts the operator socket server. Removes any stale
// socket file before binding. Blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("operator: remove stale socket %q: %w", s.socketPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("operator: mkdir %q: %w", filepath.Dir(s.socketPath), err)
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("operator: listen %q: %w", s.socketPath, err)
	}
	defer lis.Close()

	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		return fmt.Errorf("operator: chmod %q: %w", s.socketPath, err)
	}

	s.log.Info("operator socket listening", zap.String("path", s.socketPath))

	go func() {
		<-ctx.Done()
		lis.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.log.Error("operator: accept error", zap.Error(err))
				continue
			}
		}

		select {
		case s.sem <- struct{}{}:
		default:
			s.log.Warn("operator: max connections reached, rejecting")
			_ = conn.Close()
			continue
		}

		go func(c net.Conn) {
			defer func() { <-s.sem }()
			defer c.Close()
			s.handleConn(c)
		}(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	buf := make([]byte, maxRequestBytes)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		s.log.Warn("operator: read error", zap.Error(err))
		return
	}

	var req Request
	if err := json.Unmarshal(buf[:n], &req); err != nil {
		s.writeResponse(conn, Response{OK: false, Error: "invalid JSON: " + err.Error()})
		return
	}

	s.writeResponse(conn, s.dispatch(req))
}

func (s *Server) dispatch(req Request) Response {
	switch req.Cmd {
	case "status":
		return s.cmdStatus()
	case "list_origins":
		return s.cmdListOrigins()
	default:
		return Response{OK: false, Error: fmt.Sprintf("unknown command %q", req.Cmd)}
	}
}

func (s *Server) cmdStatus() Response {
	origins, fingerprintCount, initialised := gate.Snapshot()
	resp := Response{
		OK:               true,
		Initialised:      initialised,
		OriginCount:      len(origins),
		FingerprintCount: fingerprintCount,
	}
	if s.tally != nil {
		resp.Outcomes = s.tally.Snapshot()
	}
	return resp
}

func (s *Server) cmdListOrigins() Response {
	origins, _, initialised := gate.Snapshot()
	if !initialised {
		return Response{OK: false, Error: "gate not initialised"}
	}
	views := make([]OriginView, len(origins))
	for i, o := range origins {
		views[i] = OriginView{
			OriginSystem:    o.System,
			KeyPrefix:       hex.EncodeToString(o.KeyPrefix[:]),
			LastTimestampNs: o.LastTimestamp,
			LastChainHeight: o.LastHeight,
		}
	}
	return Response{OK: true, Origins: views}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, _ := json.Marshal(resp)
	data = append(data, '\n')
	_, _ = conn.Write(data)
}
