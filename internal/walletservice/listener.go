package walletservice

import (
	"context"
	"errors"
	"sync"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

var (
	// ErrSyncFailed is returned when a sync pass stopped on a client error.
	ErrSyncFailed = errors.New("sync pass failed")

	// ErrNetworkUnreachable is returned when the client of a network stopped answering.
	ErrNetworkUnreachable = errors.New("network unreachable")
)

// outcome is what a transfer waiter receives: the state that ended the wait.
type outcome struct {
	state walletkit.TransferState
	hash  string
}

// listener logs every event and wakes the callers waiting for a sync pass
// of a network or for the submission outcome of a transfer.
type listener struct {
	mu        sync.Mutex
	syncs     map[string][]chan error
	transfers map[string]chan outcome
}

var _ walletkit.Listener = (*listener)(nil)

func newListener() *listener {
	return &listener{
		syncs:     make(map[string][]chan error),
		transfers: make(map[string]chan outcome),
	}
}

// awaitSync returns a channel receiving the result of the next sync pass of
// the network identified by uids.
func (l *listener) awaitSync(uids string) <-chan error {
	ch := make(chan error, 1)

	l.mu.Lock()
	l.syncs[uids] = append(l.syncs[uids], ch)
	l.mu.Unlock()

	return ch
}

func (l *listener) resolveSync(uids string, err error) {
	l.mu.Lock()
	waiters := l.syncs[uids]
	delete(l.syncs, uids)
	l.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
}

// awaitTransfer returns a channel receiving the state that settles the
// submission of the transfer identified by uids.
func (l *listener) awaitTransfer(uids string) <-chan outcome {
	ch := make(chan outcome, 1)

	l.mu.Lock()
	l.transfers[uids] = ch
	l.mu.Unlock()

	return ch
}

func (l *listener) forgetTransfer(uids string) {
	l.mu.Lock()
	delete(l.transfers, uids)
	l.mu.Unlock()
}

func (l *listener) resolveTransfer(uids string, o outcome) {
	l.mu.Lock()
	ch, ok := l.transfers[uids]
	delete(l.transfers, uids)
	l.mu.Unlock()

	if ok {
		ch <- o
	}
}

func (l *listener) HandleSystemEvent(s *walletkit.System, e walletkit.SystemEvent) {
	defer s.Give()
	defer e.Give()

	logger.Debug(context.Background(), "system event",
		"system.uids", s.UIDS(),
		"event.type", e.Type.String(),
		"event.state", e.NewState.String(),
	)
}

func (l *listener) HandleNetworkEvent(n *walletkit.Network, e walletkit.NetworkEvent) {
	defer n.Give()

	ctx := logger.Derive(context.Background(), "network", n.UIDS(), "event.type", e.Type.String())

	switch e.Type {
	case walletkit.NetworkEventHeightUpdated:
		logger.Debug(ctx, "network height updated", "network.height", e.Height)
	case walletkit.NetworkEventConnectivityChanged:
		if e.Reachable {
			logger.Info(ctx, "network reachable")
			return
		}
		logger.Warn(ctx, "network unreachable")
		l.resolveSync(n.UIDS(), ErrNetworkUnreachable)
	default:
		logger.Debug(ctx, "network event")
	}
}

func (l *listener) HandleManagerEvent(m *walletkit.WalletManager, e walletkit.ManagerEvent) {
	defer m.Give()
	defer e.Give()

	uids := m.Network().UIDS()
	ctx := logger.Derive(context.Background(), "network", uids, "event.type", e.Type.String())

	switch e.Type {
	case walletkit.ManagerEventChanged:
		logger.Info(ctx, "wallet manager state changed", "state.old", e.OldState.String(), "state.new", e.NewState.String())
	case walletkit.ManagerEventSyncProgress:
		logger.Debug(ctx, "sync progress", "sync.percent", e.SyncProgress.PercentComplete)
		if e.SyncProgress.PercentComplete >= 100 {
			l.resolveSync(uids, nil)
		}
	case walletkit.ManagerEventSyncRecommended:
		logger.Warn(ctx, "sync recommended", "sync.depth", e.SyncDepth.String())
		l.resolveSync(uids, ErrSyncFailed)
	default:
		logger.Debug(ctx, "wallet manager event")
	}
}

func (l *listener) HandleWalletEvent(m *walletkit.WalletManager, w *walletkit.Wallet, e walletkit.WalletEvent) {
	defer m.Give()
	defer w.Give()
	defer e.Give()

	ctx := logger.Derive(context.Background(),
		"network", m.Network().UIDS(),
		"wallet.currency", w.Currency().Code,
		"event.type", e.Type.String(),
	)

	switch e.Type {
	case walletkit.WalletEventBalanceUpdated:
		logger.Info(ctx, "balance updated", "wallet.balance", displayAmount(m.Network(), e.Balance))
	case walletkit.WalletEventTransferSubmitted:
		logger.Info(ctx, "transfer submitted", "transfer.uids", e.Transfer.UIDS())
	default:
		logger.Debug(ctx, "wallet event")
	}
}

func (l *listener) HandleTransferEvent(m *walletkit.WalletManager, w *walletkit.Wallet, t *walletkit.Transfer, e walletkit.TransferEvent) {
	defer m.Give()
	defer w.Give()
	defer t.Give()

	ctx := logger.Derive(context.Background(),
		"network", m.Network().UIDS(),
		"wallet.currency", w.Currency().Code,
		"transfer.uids", t.UIDS(),
	)

	logger.Info(ctx, "transfer "+e.Type.String(),
		"transfer.direction", t.Direction().String(),
		"transfer.amount", displayAmount(m.Network(), t.Amount()),
		"state.old", e.OldState.String(),
		"state.new", e.NewState.String(),
	)

	switch e.NewState.Type() {
	case walletkit.TransferStateSubmitted, walletkit.TransferStateErrored, walletkit.TransferStateIncluded:
		var hash string
		if h, ok := t.Hash(); ok {
			hash = h.String()
		}
		l.resolveTransfer(t.UIDS(), outcome{state: e.NewState, hash: hash})
	}
}

// displayAmount renders a in the default unit of its currency.
func displayAmount(n *walletkit.Network, a walletkit.Amount) string {
	if unit, ok := n.DefaultUnit(a.Currency()); ok {
		return a.StringIn(unit)
	}
	return a.String()
}
