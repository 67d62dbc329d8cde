// Package pgsql owns the PostgreSQL connection pool lifecycle and schema
// migrations.
//
// The Connector establishes the pool once, retrying with exponential backoff,
// and hands the same pool to every caller afterwards.
package pgsql
