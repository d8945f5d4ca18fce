/*
Package redis mirrors collections to a remote Redis store.

PURPOSE:
  One-way, fire-and-forget replication: after every successful local
  save, the current in-memory value of each collection is pushed as a
  JSON payload under a namespaced key. There is no pull, no conflict
  resolution and no retry; local persistence remains the durability
  source of truth and a failed push is never surfaced to the operation
  that triggered it.

KEYS:
  <prefix><collection>, e.g. tradebook:purchases, tradebook:ledger.
*/
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Mirror implements books.Mirror over a Redis client.
type Mirror struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
	log       zerolog.Logger
}

// New connects to addr and verifies the connection with a short ping.
func New(addr, password string, db int, log zerolog.Logger) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Mirror{
		client:    client,
		keyPrefix: "tradebook:",
		timeout:   5 * time.Second,
		log:       log,
	}, nil
}

// NewWithClient wraps an existing client (useful for tests).
func NewWithClient(client *redis.Client, keyPrefix string, log zerolog.Logger) *Mirror {
	if keyPrefix == "" {
		keyPrefix = "tradebook:"
	}
	return &Mirror{client: client, keyPrefix: keyPrefix, timeout: 5 * time.Second, log: log}
}

// Push replaces the remote value of a collection. Failures are logged
// and swallowed.
func (m *Mirror) Push(ctx context.Context, collection string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		m.log.Warn().Err(err).Str("collection", collection).Msg("mirror encode failed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.Set(ctx, m.keyPrefix+collection, payload, 0).Err(); err != nil {
		m.log.Warn().Err(err).Str("collection", collection).Msg("mirror push failed")
		return
	}
	m.log.Debug().Str("collection", collection).Int("bytes", len(payload)).Msg("mirrored")
}

// Close releases the client connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}
