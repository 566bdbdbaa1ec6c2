package walletkit

import (
	"cmp"
	"context"
	"slices"
)

// BundleStore persists what a manager's engine discovered so that a new
// manager for the same account and network can replay it. Keys are the
// manager's storage key.
type BundleStore interface {
	// SaveTransferBundles upserts bundles, identified by their UIDS.
	SaveTransferBundles(ctx context.Context, key string, bundles []TransferBundle) error
	LoadTransferBundles(ctx context.Context, key string) ([]TransferBundle, error)

	// SaveTransactionBundles upserts bundles, identified by TransactionBundle.ID.
	SaveTransactionBundles(ctx context.Context, key string, bundles []TransactionBundle) error
	LoadTransactionBundles(ctx context.Context, key string) ([]TransactionBundle, error)
}

// CheckpointStore records the last block height a manager fully synced.
type CheckpointStore interface {
	// SaveCheckpoint overwrites the checkpoint of key.
	SaveCheckpoint(ctx context.Context, key string, height uint64) error

	// LoadLatestCheckpoint returns ErrNoCheckpointFound when nothing was saved for key.
	LoadLatestCheckpoint(ctx context.Context, key string) (uint64, error)
}

// blockOrder sorts unconfirmed bundles, which have no height, after every
// confirmed one.
func blockOrder(a, b uint64) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	}
	return cmp.Compare(a, b)
}

// SortTransferBundles orders bundles by block, position in the block and
// position in the transaction. Stores use it so replay follows chain order.
func SortTransferBundles(bundles []TransferBundle) {
	slices.SortStableFunc(bundles, func(a, b TransferBundle) int {
		return cmp.Or(
			blockOrder(a.BlockHeight, b.BlockHeight),
			cmp.Compare(a.BlockTransactionIndex, b.BlockTransactionIndex),
			cmp.Compare(a.TransferIndex, b.TransferIndex),
		)
	})
}

// SortTransactionBundles orders bundles by block height.
func SortTransactionBundles(bundles []TransactionBundle) {
	slices.SortStableFunc(bundles, func(a, b TransactionBundle) int {
		return blockOrder(a.BlockHeight, b.BlockHeight)
	})
}
