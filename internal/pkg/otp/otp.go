package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// Defaults applied by NewNumeric when a Config field is zero.
const (
	DefaultDigits = 4
	DefaultTTL    = 5 * time.Minute

	maxDigits = 9
)

type clocker interface {
	Now() time.Time
}

// Code is a freshly generated one-time code and the last instant it is valid.
type Code struct {
	Value     string
	ExpiresAt time.Time
}

// Generator produces one-time codes.
type Generator interface {
	Generate() (Code, error)
}

// Config tunes a Numeric generator.
type Config struct {
	// Digits is the fixed width of the code. The leading digit is never zero.
	Digits int
	// TTL is added to the current time to compute Code.ExpiresAt.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
}

// Numeric generates decimal codes uniformly in [10^(d-1), 10^d - 1] from
// crypto/rand.
type Numeric struct {
	low   *big.Int
	span  *big.Int
	ttl   time.Duration
	clock clocker
}

// NewNumeric returns a Numeric generator. Digits outside [1, 9] fall back to
// DefaultDigits and a non-positive TTL falls back to DefaultTTL.
func NewNumeric(cfg Config) *Numeric {
	digits := cfg.Digits
	if digits < 1 || digits > maxDigits {
		digits = DefaultDigits
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Mul(low, big.NewInt(10))

	return &Numeric{
		low:   low,
		span:  new(big.Int).Sub(high, low),
		ttl:   ttl,
		clock: cfg.Clock,
	}
}

// Generate returns a new code expiring TTL from now.
func (n *Numeric) Generate() (Code, error) {
	v, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		return Code{}, fmt.Errorf("otp: read random: %w", err)
	}

	v.Add(v, n.low)

	return Code{
		Value:     strconv.FormatInt(v.Int64(), 10),
		ExpiresAt: n.clock.Now().Add(n.ttl),
	}, nil
}
