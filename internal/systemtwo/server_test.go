package systemtwo

import (
	"context"
	"encoding/binary"
	"testing"

	"go.uber.org/zap"

	"github.com/octoreflex/sentrygate/internal/gate"
)

func TestApplySignatureUpdateMalformedPayloadResponseShape(t *testing.T) {
	// A one-byte payload fails the structural parse before gate state is
	// consulted. gate state is package-level and may have been initialised
	// by other tests in the module; this test only asserts the response
	// shape, not the specific outcome.
	srv := NewServer(zap.NewNop())
	out, err := srv.ApplySignatureUpdate(context.Background(), []byte{0x00})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("response length = %d, want 4", len(out))
	}
	code := gate.Code(binary.LittleEndian.Uint32(out))
	if !code.IsError() && code != gate.Allow && code != gate.Deny {
		t.Fatalf("unexpected code %v", code)
	}
}

type captureRecorder struct{ codes []gate.Code }

func (c *captureRecorder) Record(code gate.Code) { c.codes = append(c.codes, code) }

func TestApplySignatureUpdateGateInitialisedTooLarge(t *testing.T) {
	gate.RegisterClock(func() uint64 { return 1 })
	gate.Init()

	huge := make([]byte, 200000)
	rec := &captureRecorder{}
	srv := NewServer(zap.NewNop(), rec)
	out, err := srv.ApplySignatureUpdate(context.Background(), huge)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	code := gate.Code(binary.LittleEndian.Uint32(out))
	if code != gate.ErrSize {
		t.Fatalf("code = %v, want ErrSize", code)
	}
	if len(rec.codes) != 1 || rec.codes[0] != gate.ErrSize {
		t.Fatalf("recorded outcomes = %v, want [ErrSize]", rec.codes)
	}
}

func TestRawCodecRoundTrip(t *testing.T) {
	c := rawCodec{}
	want := rawFrame([]byte{1, 2, 3, 4})
	data, err := c.Marshal(&want)
	if err != nil {
		t.Fatal(err)
	}
	var got rawFrame
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRawCodecRejectsWrongType(t *testing.T) {
	c := rawCodec{}
	var notAFrame int
	if _, err := c.Marshal(&notAFrame); err == nil {
		t.Fatal("expected error marshalling non-rawFrame")
	}
	if err := c.Unmarshal([]byte{1}, &notAFrame); err == nil {
		t.Fatal("expected error unmarshalling into non-rawFrame")
	}
}

func TestBuildServerTLSMissingFiles(t *testing.T) {
	if _, err := buildServerTLS("/nonexistent/cert.pem", "/nonexistent/key.pem", "/nonexistent/ca.pem"); err == nil {
		t.Fatal("expected error for missing cert/key files")
	}
}

func TestApplySignatureUpdateHandlerNoInterceptor(t *testing.T) {
	gate.RegisterClock(func() uint64 { return 1 })
	gate.Init()

	srv := NewServer(zap.NewNop())
	payload := rawFrame([]byte{0xAA})
	dec := func(v any) error {
		f := v.(*rawFrame)
		*f = payload
		return nil
	}
	resp, err := applySignatureUpdateHandler(srv, context.Background(), dec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, ok := resp.(*rawFrame)
	if !ok {
		t.Fatalf("response type = %T, want *rawFrame", resp)
	}
	if len(*reply) != 4 {
		t.Fatalf("reply length = %d, want 4", len(*reply))
	}
}
