package pgsql

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/atomic"
)

var (
	// ErrURLRequired is returned when no connection string is configured.
	ErrURLRequired = errors.New("pgsql: database url is required")

	// ErrClosed is returned by Connect after Close.
	ErrClosed = errors.New("pgsql: connector is closed")
)

// Config describes the pool and the connect retry policy.
type Config struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	// PingTimeout bounds each connection attempt. Zero means 5s.
	PingTimeout time.Duration
	// ConnectRetries is the number of retries after the first failed attempt.
	ConnectRetries uint64
	// ConnectBackoff is the base of the exponential backoff. Zero means 200ms.
	ConnectBackoff time.Duration
}

// Connector lazily creates a single *pgxpool.Pool. Once closed it stays
// closed.
type Connector struct {
	cfg    Config
	mu     sync.Mutex
	pool   atomic.Pointer[pgxpool.Pool]
	closed bool
}

// NewConnector returns a Connector. No connection is made until Connect.
func NewConnector(cfg Config) *Connector {
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 200 * time.Millisecond
	}

	return &Connector{cfg: cfg}
}

// Connect returns the shared pool, creating and pinging it on first use.
// Concurrent and repeated calls return the same pool.
func (c *Connector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	if p := c.pool.Load(); p != nil {
		return p, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if p := c.pool.Load(); p != nil {
		return p, nil
	}

	if c.cfg.URL == "" {
		return nil, ErrURLRequired
	}

	poolCfg, err := pgxpool.ParseConfig(c.cfg.URL)
	if err != nil {
		return nil, err
	}
	if c.cfg.MaxConns > 0 {
		poolCfg.MaxConns = c.cfg.MaxConns
	}
	if c.cfg.MinConns > 0 {
		poolCfg.MinConns = c.cfg.MinConns
	}
	if c.cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = c.cfg.MaxConnLifetime
	}
	if c.cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = c.cfg.MaxConnIdleTime
	}
	if c.cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = c.cfg.HealthCheckPeriod
	}

	backoff := retry.WithMaxRetries(c.cfg.ConnectRetries, retry.NewExponential(c.cfg.ConnectBackoff))
	backoff = retry.WithCappedDuration(5*time.Second, backoff)

	var pool *pgxpool.Pool
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, c.cfg.PingTimeout)
		defer cancel()

		if err := p.Ping(pingCtx); err != nil {
			p.Close()
			slog.WarnContext(ctx, "database not reachable, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.pool.Store(pool)

	return pool, nil
}

// Close closes the pool if it was created. Later Connect calls return
// ErrClosed.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if p := c.pool.Swap(nil); p != nil {
		p.Close()
	}
}
