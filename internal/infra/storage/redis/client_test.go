package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Keys(t *testing.T) {
	c := &client{namespace: "walletkit-testnet"}

	assert.Equal(t, "walletkit-testnet:transfers:ethereum-sepolia/acct", c.transferBundlesKey("ethereum-sepolia/acct"))
	assert.Equal(t, "walletkit-testnet:transactions:bitcoin-testnet/acct", c.transactionBundlesKey("bitcoin-testnet/acct"))
	assert.Equal(t, "walletkit-testnet:checkpoint:tezos-testnet/acct", c.checkpointKey("tezos-testnet/acct"))
}

func TestNewClient(t *testing.T) {
	t.Run("applies options", func(t *testing.T) {
		cfg := config{namespace: defaultNamespace}
		for _, opt := range []Option{WithCredentials("wallet", "secret"), WithDB(3), WithNamespace("wk")} {
			opt(&cfg)
		}

		assert.Equal(t, config{username: "wallet", password: "secret", db: 3, namespace: "wk"}, cfg)
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		c, err := NewClient(ctx, "127.0.0.1:1")

		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to reach redis at 127.0.0.1:1")
	})
}
