package webhooks

import "testing"

func TestSignVerifyHMAC(t *testing.T) {
	body := []byte(`{"type":"monsoon.risk.high"}`)
	sig := SignHMAC("k", body)
	if len(sig) != 64 {
		t.Fatalf("hex length: %d", len(sig))
	}
	if !VerifyHMAC("k", body, sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyHMAC("other", body, sig) || VerifyHMAC("k", body, "zz") {
		t.Fatal("bad signature accepted")
	}
}
