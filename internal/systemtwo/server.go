// Package systemtwo — server.go
//
// gRPC mTLS server receiving SignatureUpdate pushes from System 2.
//
// Transport security, adapted from the OCTOREFLEX gossip layer's mTLS
// setup:
//   - TLS 1.3 only (tls.VersionTLS13).
//   - Mutual TLS: the connecting System 2 node must present a certificate
//     signed by the configured CA.
//   - Certificate type: Ed25519, matching the gate's own signature
//     algorithm so the transport and the application-layer guardrail
//     share one key type across the deployment.
//
// Unlike gossip's ShareObservation, this server performs no envelope
// verification of its own — the payload is itself a signed
// SignatureUpdate, and apply_signature_update (internal/gate) is where
// every provenance guardrail runs. The transport's only job is mutual
// authentication and delivering bytes intact.
package systemtwo

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/octoreflex/sentrygate/internal/gate"
)

// OutcomeRecorder receives the gate.Code produced by each entry-point
// call this server makes. Both observability.Metrics and operator.Tally
// satisfy it; the gate itself records nothing.
type OutcomeRecorder interface {
	Record(code gate.Code)
}

// Server implements SignatureUpdateServer by forwarding the raw request
// bytes straight to gate.ApplySignatureUpdate.
type Server struct {
	log       *zap.Logger
	recorders []OutcomeRecorder
}

// NewServer creates a systemtwo Server. Every recorder is invoked with
// the outcome of each apply_signature_update call.
func NewServer(log *zap.Logger, recorders ...OutcomeRecorder) *Server {
	return &Server{log: log, recorders: recorders}
}

// ApplySignatureUpdate hands req to the gate unchanged and returns the
// outcome code, little-endian uint32, as the response payload. A
// non-Allow code is not a transport error — the RPC still succeeds; the
// caller inspects the returned code. The full 32-bit code must be
// carried, not truncated to one byte: the error sentinels use a 0xFF
// high byte specifically so a one-byte truncation would otherwise
// collide with the low positive policy codes.
func (s *Server) ApplySignatureUpdate(ctx context.Context, req []byte) ([]byte, error) {
	code := gate.ApplySignatureUpdate(req)
	for _, r := range s.recorders {
		r.Record(code)
	}
	s.log.Debug("system2 signature update processed", zap.String("outcome", code.String()))
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(code))
	return out, nil
}

// ListenAndServe starts the gRPC mTLS server on addr. Blocks until ctx
// is cancelled.
func ListenAndServe(ctx context.Context, addr string, certFile, keyFile, caFile string, srv *Server, log *zap.Logger) error {
	tlsCfg, err := buildServerTLS(certFile, keyFile, caFile)
	if err != nil {
		return fmt.Errorf("system2 TLS config: %w", err)
	}

	creds := credentials.NewTLS(tlsCfg)
	grpcSrv := grpc.NewServer(
		grpc.Creds(creds),
		// One SignatureUpdate is bounded by gateconfig.MaxMessageBytes
		// (64 KiB); double it for framing headroom.
		grpc.MaxRecvMsgSize(128*1024),
		grpc.MaxSendMsgSize(4*1024),
	)
	grpcSrv.RegisterService(&ServiceDesc, srv)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("system2 listen %s: %w", addr, err)
	}

	log.Info("system2 server listening", zap.String("addr", addr))

	go func() {
		<-ctx.Done()
		grpcSrv.GracefulStop()
	}()

	if err := grpcSrv.Serve(lis); err != nil {
		return fmt.Errorf("system2 grpc serve: %w", err)
	}
	return nil
}

// buildServerTLS constructs a TLS 1.3-only mTLS config requiring an
// Ed25519 client certificate signed by caFile.
func buildServerTLS(certFile, keyFile, caFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server cert/key: %w", err)
	}

	caData, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read CA file %q: %w", caFile, err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("failed to parse CA certificate from %q", caFile)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    caPool,
		MinVersion:   tls.VersionTLS13,
		VerifyConnection: func(cs tls.ConnectionState) error {
			if len(cs.PeerCertificates) == 0 {
				return fmt.Errorf("system2 peer presented no certificate")
			}
			if _, ok := cs.PeerCertificates[0].PublicKey.(ed25519.PublicKey); !ok {
				return fmt.Errorf("system2 peer certificate key is %T, want Ed25519", cs.PeerCertificates[0].PublicKey)
			}
			return nil
		},
	}, nil
}

// DialTimeout is the default deadline for a System 2 client's connection
// attempt.
const DialTimeout = 5 * time.Second
