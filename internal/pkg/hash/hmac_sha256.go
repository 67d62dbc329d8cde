package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 is a keyed, deterministic digest. It is not a credential hasher
// on its own: equal inputs give equal outputs. Bcrypt uses it to fold the
// pepper into a fixed 64-byte input.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a digest keyed by secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Sum returns the hex-encoded HMAC-SHA256 of str.
func (s *HMACSHA256) Sum(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	sum := h.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
