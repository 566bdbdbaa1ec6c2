package walletkit

import (
	"context"
	"errors"
	"slices"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/refcount"
)

type recoverBatch struct {
	wallet    *Wallet
	transfers []*Transfer
}

// recoverBatches groups new transfers per wallet, preserving arrival order.
type recoverBatches []*recoverBatch

func (bs *recoverBatches) get(w *Wallet) *recoverBatch {
	for _, b := range *bs {
		if b.wallet.Equal(w) {
			return b
		}
	}

	b := &recoverBatch{wallet: w.Take()}
	*bs = append(*bs, b)
	return b
}

func (bs recoverBatches) release() {
	for _, b := range bs {
		refcount.GiveAll(b.transfers)
		b.wallet.Give()
	}
}

// RecoverTransferBundles turns bundles reported by the client into transfers
// or transfer state updates, persisting the bundles when a store is set.
// Engines call it with everything they discover.
func (m *WalletManager) RecoverTransferBundles(ctx context.Context, bundles []TransferBundle) {
	m.applyRecovered(m.recoverTransfers(ctx, bundles), false)

	if m.bundles != nil && len(bundles) > 0 {
		if err := m.bundles.SaveTransferBundles(ctx, m.StorageKey(), bundles); err != nil {
			logger.Error(ctx, "failed to persist transfer bundles", "count", len(bundles), "error", err)
		}
	}
}

// RecoverTransactionBundles is RecoverTransferBundles for raw transactions.
func (m *WalletManager) RecoverTransactionBundles(ctx context.Context, bundles []TransactionBundle) {
	m.applyRecovered(m.recoverTransactions(ctx, bundles), false)

	if m.bundles != nil && len(bundles) > 0 {
		if err := m.bundles.SaveTransactionBundles(ctx, m.StorageKey(), bundles); err != nil {
			logger.Error(ctx, "failed to persist transaction bundles", "count", len(bundles), "error", err)
		}
	}
}

func (m *WalletManager) recoverTransfers(ctx context.Context, bundles []TransferBundle) []Recovered {
	recovered := make([]Recovered, 0, len(bundles))
	for _, b := range bundles {
		r, err := m.handlers.Manager.RecoverTransfer(ctx, m, b)
		if m.checkRecovered(ctx, err, "bundle.uids", b.UIDS, "bundle.hash", b.Hash) {
			recovered = append(recovered, r)
		}
	}
	return recovered
}

func (m *WalletManager) recoverTransactions(ctx context.Context, bundles []TransactionBundle) []Recovered {
	recovered := make([]Recovered, 0, len(bundles))
	for _, b := range bundles {
		r, err := m.handlers.Manager.RecoverTransaction(ctx, m, b)
		if m.checkRecovered(ctx, err, "bundle.id", b.ID(), "bundle.height", b.BlockHeight) {
			recovered = append(recovered, r)
		}
	}
	return recovered
}

// checkRecovered reports whether a recovery succeeded. A bundle the account
// is neither source nor target of means the client returned data for
// someone else; that is a bug, not a runtime condition.
func (m *WalletManager) checkRecovered(ctx context.Context, err error, keysAndValues ...any) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrDirectionUndefined):
		logger.Panic(ctx, "bundle does not belong to the account", append(keysAndValues, "error", err)...)
	default:
		logger.Warn(ctx, "skipping unrecoverable bundle", append(keysAndValues, "error", err)...)
	}
	return false
}

// applyRecovered updates known transfers first, then adds the new ones per
// wallet in a single batch. On replay every wallet reports its balance
// exactly once, even when nothing was added to it.
func (m *WalletManager) applyRecovered(recovered []Recovered, replay bool) {
	var batches recoverBatches
	defer batches.release()

	if replay {
		for _, w := range m.Wallets() {
			batches.get(w)
			w.Give()
		}
	}

	for _, r := range recovered {
		if !r.IsNew {
			m.setTransferState(r.Wallet, r.Transfer, r.State)
			r.Release()
			continue
		}

		b := batches.get(r.Wallet)

		// A later report of a transfer not yet added supersedes the earlier one.
		if i := slices.IndexFunc(b.transfers, r.Transfer.Equal); i >= 0 {
			b.transfers[i].setState(r.State)
			r.Release()
			continue
		}

		b.transfers = append(b.transfers, r.Transfer)
		r.giveFeeBasis()
		r.Wallet.Give()
	}

	for _, b := range batches {
		m.addTransfers(b.wallet, b.transfers, replay)
	}
}

// replay feeds persisted bundles through the discovery path.
func (m *WalletManager) replay(ctx context.Context) error {
	if m.bundles == nil {
		return nil
	}

	key := m.StorageKey()

	transfers, err := m.bundles.LoadTransferBundles(ctx, key)
	if err != nil {
		return err
	}

	transactions, err := m.bundles.LoadTransactionBundles(ctx, key)
	if err != nil {
		return err
	}

	logger.Debug(ctx, "replaying persisted bundles", "transfers", len(transfers), "transactions", len(transactions))

	recovered := append(m.recoverTransfers(ctx, transfers), m.recoverTransactions(ctx, transactions)...)
	m.applyRecovered(recovered, true)
	return nil
}
