package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/redis/go-redis/v9"
)

// checkpointKey holds the latest block height a manager fully synced.
func (c *client) checkpointKey(key string) string {
	return c.key("checkpoint", key)
}

// SaveCheckpoint persists the most recent block height a manager fully
// synced. The checkpoint is stored with no expiration.
func (c *client) SaveCheckpoint(ctx context.Context, key string, height uint64) error {
	return c.conn.Set(ctx, c.checkpointKey(key), strconv.FormatUint(height, 10), 0).Err()
}

// LoadLatestCheckpoint retrieves the checkpoint saved for key.
//
// If no checkpoint exists yet, it returns walletkit.ErrNoCheckpointFound.
func (c *client) LoadLatestCheckpoint(ctx context.Context, key string) (uint64, error) {
	height, err := c.conn.Get(ctx, c.checkpointKey(key)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = walletkit.ErrNoCheckpointFound
		}

		return 0, err
	}

	return height, nil
}

// Compile-time assertion to ensure client implements the CheckpointStore interface.
var _ walletkit.CheckpointStore = new(client)
