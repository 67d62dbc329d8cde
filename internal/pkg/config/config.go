package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving duration values stored as integers.
type TimeConfig interface {
	// GetSecond returns the integer value of key multiplied by time.Second.
	GetSecond(key string) time.Duration

	// GetMinute returns the integer value of key multiplied by time.Minute.
	GetMinute(key string) time.Duration

	// GetDay returns the integer value of key multiplied by 24h.
	GetDay(key string) time.Duration
}

// Config defines a read-only view over layered configuration values.
//
// Lookups resolve in order: environment variable, config file, registered
// default. A key such as "jwt.secret" is read from the JWT_SECRET environment
// variable.
type Config interface {
	io.Closer
	TimeConfig

	// GetBool returns the value for key as bool.
	GetBool(key string) bool

	// GetInt returns the value for key as int.
	GetInt(key string) int

	// GetInt32 returns the value for key as int32.
	GetInt32(key string) int32

	// GetFloat64 returns the value for key as float64.
	GetFloat64(key string) float64

	// GetString returns the value for key as string.
	GetString(key string) string

	// GetArray returns the value for key split on commas, with blanks removed.
	// Configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string

	// IsSet reports whether key has a value from any source, defaults included.
	IsSet(key string) bool
}
