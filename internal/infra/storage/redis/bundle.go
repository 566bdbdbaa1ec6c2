package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// transferBundlesKey is the hash holding the transfer bundles of a manager,
// keyed by bundle UIDS.
func (c *client) transferBundlesKey(key string) string {
	return c.key("transfers", key)
}

// transactionBundlesKey is the hash holding the transaction bundles of a
// manager, keyed by TransactionBundle.ID.
func (c *client) transactionBundlesKey(key string) string {
	return c.key("transactions", key)
}

// hset writes every field in a single HSET, overwriting earlier versions of
// the same bundle.
func (c *client) hset(ctx context.Context, key string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return c.conn.HSet(ctx, key, fields).Err()
}

func (c *client) SaveTransferBundles(ctx context.Context, key string, bundles []walletkit.TransferBundle) error {
	fields := make(map[string]any, len(bundles))
	for _, b := range bundles {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		fields[b.UIDS] = data
	}

	return c.hset(ctx, c.transferBundlesKey(key), fields)
}

// LoadTransferBundles returns every transfer bundle saved for key in chain
// order.
func (c *client) LoadTransferBundles(ctx context.Context, key string) ([]walletkit.TransferBundle, error) {
	values, err := c.conn.HVals(ctx, c.transferBundlesKey(key)).Result()
	if err != nil {
		return nil, err
	}

	bundles := make([]walletkit.TransferBundle, len(values))
	for i, v := range values {
		if err := json.Unmarshal([]byte(v), &bundles[i]); err != nil {
			return nil, fmt.Errorf("corrupted transfer bundle in %s: %w", c.transferBundlesKey(key), err)
		}
	}

	walletkit.SortTransferBundles(bundles)
	return bundles, nil
}

func (c *client) SaveTransactionBundles(ctx context.Context, key string, bundles []walletkit.TransactionBundle) error {
	fields := make(map[string]any, len(bundles))
	for _, b := range bundles {
		data, err := json.Marshal(b)
		if err != nil {
			return err
		}
		fields[b.ID()] = data
	}

	return c.hset(ctx, c.transactionBundlesKey(key), fields)
}

// LoadTransactionBundles returns every transaction bundle saved for key in
// chain order.
func (c *client) LoadTransactionBundles(ctx context.Context, key string) ([]walletkit.TransactionBundle, error) {
	values, err := c.conn.HVals(ctx, c.transactionBundlesKey(key)).Result()
	if err != nil {
		return nil, err
	}

	bundles := make([]walletkit.TransactionBundle, len(values))
	for i, v := range values {
		if err := json.Unmarshal([]byte(v), &bundles[i]); err != nil {
			return nil, fmt.Errorf("corrupted transaction bundle in %s: %w", c.transactionBundlesKey(key), err)
		}
	}

	walletkit.SortTransactionBundles(bundles)
	return bundles, nil
}

// Compile-time assertion to ensure client implements the BundleStore interface.
var _ walletkit.BundleStore = new(client)
