package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 10

// Bcrypt implements Hash using bcrypt.
//
// With a pepper the plaintext is first reduced to HMAC-SHA256(pepper, plaintext),
// so the bcrypt input is always 64 bytes and the 72-byte limit applies to the
// plaintext alone. Keep the pepper in configuration, never in the database.
type Bcrypt struct {
	cost   int
	pepper *HMACSHA256
}

// NewBcrypt returns a bcrypt-based hasher.
//
// cost controls the hashing work factor. Values outside
// [bcrypt.MinCost, bcrypt.MaxCost] fall back to DefaultBcryptCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	b := &Bcrypt{cost: cost}
	if pepper != "" {
		b.pepper = NewHMACSHA256(pepper)
	}
	return b
}

func (h *Bcrypt) input(plaintext string) []byte {
	if h.pepper == nil {
		return []byte(plaintext)
	}
	return h.pepper.Sum(plaintext)
}

// Hash hashes plaintext using bcrypt. Without a pepper, plaintext longer than
// 72 bytes is rejected by bcrypt with ErrPasswordTooLong.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.input(plaintext), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hashed), h.input(plaintext)) == nil
}
