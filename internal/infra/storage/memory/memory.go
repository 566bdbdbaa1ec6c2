// Package memory keeps walletkit bundles and checkpoints in process memory.
// It backs the CLI when no Redis address is configured, and tests.
package memory

import (
	"context"
	"sync"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

type store struct {
	mu           sync.RWMutex
	checkpoints  map[string]uint64
	transfers    map[string]map[string]walletkit.TransferBundle
	transactions map[string]map[string]walletkit.TransactionBundle
}

var (
	_ walletkit.BundleStore     = (*store)(nil)
	_ walletkit.CheckpointStore = (*store)(nil)
)

func NewStore() *store {
	return &store{
		checkpoints:  make(map[string]uint64),
		transfers:    make(map[string]map[string]walletkit.TransferBundle),
		transactions: make(map[string]map[string]walletkit.TransactionBundle),
	}
}

func (s *store) SaveCheckpoint(_ context.Context, key string, height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkpoints[key] = height
	return nil
}

func (s *store) LoadLatestCheckpoint(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	height, ok := s.checkpoints[key]
	if !ok {
		return 0, walletkit.ErrNoCheckpointFound
	}
	return height, nil
}

func (s *store) SaveTransferBundles(_ context.Context, key string, bundles []walletkit.TransferBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, ok := s.transfers[key]
	if !ok {
		saved = make(map[string]walletkit.TransferBundle, len(bundles))
		s.transfers[key] = saved
	}
	for _, b := range bundles {
		saved[b.UIDS] = b
	}
	return nil
}

func (s *store) LoadTransferBundles(_ context.Context, key string) ([]walletkit.TransferBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bundles := make([]walletkit.TransferBundle, 0, len(s.transfers[key]))
	for _, b := range s.transfers[key] {
		bundles = append(bundles, b)
	}

	walletkit.SortTransferBundles(bundles)
	return bundles, nil
}

func (s *store) SaveTransactionBundles(_ context.Context, key string, bundles []walletkit.TransactionBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, ok := s.transactions[key]
	if !ok {
		saved = make(map[string]walletkit.TransactionBundle, len(bundles))
		s.transactions[key] = saved
	}
	for _, b := range bundles {
		saved[b.ID()] = b
	}
	return nil
}

func (s *store) LoadTransactionBundles(_ context.Context, key string) ([]walletkit.TransactionBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bundles := make([]walletkit.TransactionBundle, 0, len(s.transactions[key]))
	for _, b := range s.transactions[key] {
		bundles = append(bundles, b)
	}

	walletkit.SortTransactionBundles(bundles)
	return bundles, nil
}
