package uid

import "github.com/google/uuid"

// UUID generates time-ordered version 7 UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() UUID {
	return UUID{}
}

// Generate returns a new UUIDv7, or a random v4 when the v7 source fails.
func (UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}
