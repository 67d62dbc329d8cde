// Package mongodb owns the MongoDB client lifecycle.
package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/atomic"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultSocketTimeout  = 45 * time.Second
)

var (
	ErrURIRequired      = errors.New("mongodb: uri is required")
	ErrDatabaseRequired = errors.New("mongodb: database name is required")
	ErrClosed           = errors.New("mongodb: connector is closed")
)

// Config describes the client. Zero durations fall back to the defaults above.
type Config struct {
	URI      string
	Database string
	// ConnectTimeout bounds both dialing and server selection.
	ConnectTimeout time.Duration
	// SocketTimeout bounds every operation issued through the client.
	SocketTimeout  time.Duration
	MaxPoolSize    uint64
	ConnectRetries uint64
	ConnectBackoff time.Duration
}

// Connector lazily creates a single *mongo.Client and hands out its database.
// The client is published atomically, so Connect never observes a half-closed
// connector. Once closed, a Connector stays closed.
type Connector struct {
	cfg    Config
	mu     sync.Mutex
	client atomic.Pointer[mongo.Client]
	closed bool
}

func NewConnector(cfg Config) *Connector {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = DefaultSocketTimeout
	}
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 200 * time.Millisecond
	}

	return &Connector{cfg: cfg}
}

// ClientOptions returns the driver options derived from the config.
func (c *Connector) ClientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetConnectTimeout(c.cfg.ConnectTimeout).
		SetServerSelectionTimeout(c.cfg.ConnectTimeout).
		SetTimeout(c.cfg.SocketTimeout)
	if c.cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.cfg.MaxPoolSize)
	}
	return opts
}

// Connect returns the configured database, connecting and pinging on first use.
func (c *Connector) Connect(ctx context.Context) (*mongo.Database, error) {
	if cl := c.client.Load(); cl != nil {
		return cl.Database(c.cfg.Database), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if cl := c.client.Load(); cl != nil {
		return cl.Database(c.cfg.Database), nil
	}

	if c.cfg.URI == "" {
		return nil, ErrURIRequired
	}
	if c.cfg.Database == "" {
		return nil, ErrDatabaseRequired
	}

	client, err := mongo.Connect(c.ClientOptions())
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(c.cfg.ConnectRetries, retry.NewExponential(c.cfg.ConnectBackoff))
	backoff = retry.WithCappedDuration(5*time.Second, backoff)

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			slog.WarnContext(ctx, "mongodb not reachable, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	c.client.Store(client)

	return client.Database(c.cfg.Database), nil
}

// Close disconnects the client if it was created. Later Connect calls return
// ErrClosed.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	cl := c.client.Swap(nil)
	if cl == nil {
		return nil
	}

	return cl.Disconnect(ctx)
}
