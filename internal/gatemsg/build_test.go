package gatemsg

import (
	"crypto/ed25519"
	"testing"

	"github.com/octoreflex/sentrygate/internal/schema"
)

func TestBuildSecurityRequestVerifies(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := BuildSecurityRequest(Provenance{
		DigestLo: 1, DigestHi: 2, TimestampNs: 1000,
		ChainHeight: 1, OriginSystem: 7,
		PublicKey: pub, PrivateKey: priv,
	})
	if err := schema.VerifySecurityRequest(buf); err != nil {
		t.Fatalf("VerifySecurityRequest: %v", err)
	}
	req := schema.GetRootAsSecurityRequest(buf, 0)
	p := req.Provenance(nil)
	if p == nil {
		t.Fatal("Provenance() returned nil")
	}
	ts, ok := p.TimestampNs()
	if !ok || ts != 1000 {
		t.Fatalf("TimestampNs() = %d, %v; want 1000, true", ts, ok)
	}
}

func TestBuildSecurityRequestWithEmbedding(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := BuildSecurityRequest(Provenance{
		DigestLo: 1, DigestHi: 2, TimestampNs: 1000,
		ChainHeight: 1, OriginSystem: 7,
		PublicKey: pub, PrivateKey: priv, EmbeddingLen: 16,
	})
	req := schema.GetRootAsSecurityRequest(buf, 0)
	var dc schema.DomainContext
	d := req.DomainContext(&dc)
	if d == nil {
		t.Fatal("DomainContext() returned nil")
	}
	if d.EmbeddingLength() != 16 {
		t.Fatalf("EmbeddingLength() = %d, want 16", d.EmbeddingLength())
	}
}

func TestBuildSignatureUpdateVerifies(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := BuildSignatureUpdate(Provenance{
		DigestLo: 9, DigestHi: 9, TimestampNs: 5000,
		ChainHeight: 2, OriginSystem: 1,
		PublicKey: pub, PrivateKey: priv,
	}, []schema.Xxh3DigestValue{{Lo: 1, Hi: 2}, {Lo: 3, Hi: 4}})

	if err := schema.VerifySignatureUpdate(buf); err != nil {
		t.Fatalf("VerifySignatureUpdate: %v", err)
	}
	upd := schema.GetRootAsSignatureUpdate(buf, 0)
	if n := upd.NewSignaturesLength(); n != 2 {
		t.Fatalf("NewSignaturesLength() = %d, want 2", n)
	}
}
