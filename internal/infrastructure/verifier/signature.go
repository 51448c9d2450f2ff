package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer checks (and, for tests, produces) webhook signatures: hex-encoded
// HMAC-SHA256 over the raw request body with the shared provider secret.
type Signer struct{ secret []byte }

func NewSigner(secret string) *Signer { return &Signer{secret: []byte(secret)} }

func (s *Signer) Sign(payload []byte) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write(payload)
	return hex.EncodeToString(m.Sum(nil))
}

// Verify compares in constant time.
func (s *Signer) Verify(payload []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	m := hmac.New(sha256.New, s.secret)
	m.Write(payload)
	return hmac.Equal(m.Sum(nil), want)
}
