// Package redis persists walletkit bundles and sync checkpoints in Redis.
//
// Keys are namespaced as "<namespace>:<kind>:<storage key>", where the
// storage key is the one a WalletManager passes to its stores.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const defaultNamespace = "walletkit"

type config struct {
	username  string
	password  string
	db        int
	namespace string
}

// Option configures the client built by NewClient.
type Option func(*config)

// WithCredentials authenticates with an ACL user, or with the legacy
// password when username is empty.
func WithCredentials(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(c *config) {
		c.db = db
	}
}

// WithNamespace prefixes every key. Defaults to "walletkit".
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

type client struct {
	conn      *redis.Client
	namespace string
}

// NewClient connects to addr and checks the connection with a PING.
func NewClient(ctx context.Context, addr string, opts ...Option) (*client, error) {
	cfg := config{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}

	return &client{
		conn:      conn,
		namespace: cfg.namespace,
	}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}

func (c *client) key(kind, storageKey string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, storageKey)
}
