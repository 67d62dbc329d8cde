package mongodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestNewConnector_Defaults(t *testing.T) {
	c := NewConnector(Config{URI: "mongodb://localhost:27017", Database: "auth"})

	opts := c.ClientOptions()
	require.NotNil(t, opts.ConnectTimeout)
	require.NotNil(t, opts.ServerSelectionTimeout)
	require.NotNil(t, opts.Timeout)
	assert.Equal(t, 5*time.Second, *opts.ConnectTimeout)
	assert.Equal(t, 5*time.Second, *opts.ServerSelectionTimeout)
	assert.Equal(t, 45*time.Second, *opts.Timeout)
	assert.Nil(t, opts.MaxPoolSize)
}

func TestNewConnector_Overrides(t *testing.T) {
	c := NewConnector(Config{
		URI:            "mongodb://localhost:27017",
		Database:       "auth",
		ConnectTimeout: time.Second,
		SocketTimeout:  2 * time.Second,
		MaxPoolSize:    20,
	})

	opts := c.ClientOptions()
	assert.Equal(t, time.Second, *opts.ConnectTimeout)
	assert.Equal(t, 2*time.Second, *opts.Timeout)
	assert.Equal(t, uint64(20), *opts.MaxPoolSize)
}

func TestConnector_Connect_ConfigErrors(t *testing.T) {
	_, err := NewConnector(Config{Database: "auth"}).Connect(context.Background())
	assert.ErrorIs(t, err, ErrURIRequired)

	_, err = NewConnector(Config{URI: "mongodb://localhost:27017"}).Connect(context.Background())
	assert.ErrorIs(t, err, ErrDatabaseRequired)
}

func TestConnector_Close_NotConnected(t *testing.T) {
	assert.NoError(t, NewConnector(Config{}).Close(context.Background()))
}

func TestConnector_ConnectDuringClose(t *testing.T) {
	c := NewConnector(Config{URI: "mongodb://127.0.0.1:1", Database: "auth", ConnectTimeout: 100 * time.Millisecond})

	// mongo.Connect does not dial, so an unreachable server is fine here.
	client, err := mongo.Connect(c.ClientOptions())
	require.NoError(t, err)
	c.client.Store(client)

	db, err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "auth", db.Name())

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			db, err := c.Connect(context.Background())
			if err != nil {
				assert.ErrorIs(t, err, ErrClosed)
				return
			}
			assert.Equal(t, "auth", db.Name())
		})
	}
	assert.NoError(t, c.Close(context.Background()))
	wg.Wait()

	_, err = c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, c.Close(context.Background()))
}
