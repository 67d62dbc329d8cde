// Package hash provides salted, slow one-way hashing for secrets.
//
// Both account passwords and OTP codes are stored only as digests produced
// here, then checked by comparing user input against the stored digest.
// Implementations (bcrypt, argon2id) live behind the Hash interface and are
// selected by name with New.
package hash
