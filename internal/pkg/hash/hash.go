package hash

import (
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by New.
const (
	DriverBcrypt   = "bcrypt"
	DriverArgon2id = "argon2id"
)

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("hash: unknown driver")

// Hash is a randomized one-way function used for passwords and OTP codes.
//
// Two calls to Hash with the same plaintext return different digests because
// every digest embeds its own random salt.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Config selects and tunes a Hash implementation.
type Config struct {
	Driver     string
	BcryptCost int
	Pepper     string
}

// New returns the Hash implementation named by cfg.Driver. An empty driver
// selects bcrypt.
func New(cfg Config) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper), nil
	case DriverArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
