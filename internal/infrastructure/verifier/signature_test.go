package verifier

import "testing"

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner("shared-secret")
	payload := []byte(`{"session_id":"abc","status":"completed","decision":"approved"}`)

	sig := s.Sign(payload)
	if !s.Verify(payload, sig) {
		t.Fatalf("signature did not verify")
	}
}

func TestSigner_RejectsTamperedPayload(t *testing.T) {
	s := NewSigner("shared-secret")
	sig := s.Sign([]byte(`{"session_id":"abc"}`))

	if s.Verify([]byte(`{"session_id":"zzz"}`), sig) {
		t.Fatalf("tampered payload verified")
	}
}

func TestSigner_RejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"session_id":"abc"}`)
	sig := NewSigner("other-secret").Sign(payload)

	if NewSigner("shared-secret").Verify(payload, sig) {
		t.Fatalf("signature from wrong secret verified")
	}
}

func TestSigner_RejectsNonHexSignature(t *testing.T) {
	s := NewSigner("shared-secret")
	if s.Verify([]byte("x"), "not-hex!") {
		t.Fatalf("non-hex signature verified")
	}
}
