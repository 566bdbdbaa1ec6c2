package walletkit

import (
	"math/big"
	"slices"
	"sync"

	"github.com/gabapcia/walletkit/internal/pkg/refcount"

	"github.com/holiman/uint256"
)

// WalletState is the lifecycle state of a wallet.
type WalletState uint8

const (
	WalletStateCreated WalletState = iota
	WalletStateDeleted
)

func (s WalletState) String() string {
	if s == WalletStateDeleted {
		return "DELETED"
	}
	return "CREATED"
}

// WalletConfig is what a chain handler decides when it creates a wallet.
type WalletConfig struct {
	Type            NetworkType
	Handler         WalletHandler
	Manager         *WalletManager
	Unit            Unit
	UnitForFee      Unit
	DefaultFeeBasis *FeeBasis
	Native          any
}

// Wallet holds the transfers of one currency of a manager's network and
// derives the balance from them.
type Wallet struct {
	ref refcount.Counter

	typ        NetworkType
	handler    WalletHandler
	manager    *WalletManager // not retained; the manager outlives its wallets
	unit       Unit
	unitForFee Unit
	native     any

	mu              sync.RWMutex
	state           WalletState
	transfers       []*Transfer
	balance         Amount
	defaultFeeBasis *FeeBasis
}

// NewWallet returns a wallet holding one reference. It takes its own
// reference to cfg.DefaultFeeBasis.
func NewWallet(cfg WalletConfig) *Wallet {
	w := &Wallet{
		typ:        cfg.Type,
		handler:    cfg.Handler,
		manager:    cfg.Manager,
		unit:       cfg.Unit,
		unitForFee: cfg.UnitForFee,
		native:     cfg.Native,
		balance:    NewAmountFromUint64(cfg.Unit, 0),
	}
	if cfg.DefaultFeeBasis != nil {
		w.defaultFeeBasis = cfg.DefaultFeeBasis.Take()
	}
	w.ref.Init("wallet", w.release)
	return w
}

func (w *Wallet) release() {
	refcount.GiveAll(w.transfers)
	w.transfers = nil
	if w.defaultFeeBasis != nil {
		w.defaultFeeBasis.Give()
	}
}

func (w *Wallet) Take() *Wallet { w.ref.Retain(); return w }
func (w *Wallet) Give()         { w.ref.Release() }

func (w *Wallet) Type() NetworkType { return w.typ }

// Manager returns the owning manager (borrowed).
func (w *Wallet) Manager() *WalletManager { return w.manager }

func (w *Wallet) Currency() Currency { return w.unit.Currency }
func (w *Wallet) Unit() Unit         { return w.unit }
func (w *Wallet) UnitForFee() Unit   { return w.unitForFee }

// Native returns the chain handler's per-wallet state.
func (w *Wallet) Native() any { return w.native }

func (w *Wallet) State() WalletState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// setState reports the previous state and whether it changed.
func (w *Wallet) setState(s WalletState) (WalletState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.state
	w.state = s
	return prev, prev != s
}

// Balance returns the balance as of the last change to the transfer set.
func (w *Wallet) Balance() Amount {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Transfers returns a snapshot of the wallet's transfers in insertion order.
// Each entry is a taken reference.
func (w *Wallet) Transfers() []*Transfer {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ts := make([]*Transfer, len(w.transfers))
	for i, t := range w.transfers {
		ts[i] = t.Take()
	}
	return ts
}

// TransferCount returns the number of transfers held.
func (w *Wallet) TransferCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.transfers)
}

// TransferByHash returns a taken reference to the transfer with hash h, or nil.
func (w *Wallet) TransferByHash(h Hash) *Transfer {
	if h.IsEmpty() {
		return nil
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, t := range w.transfers {
		if th, ok := t.Hash(); ok && th == h {
			return t.Take()
		}
	}
	return nil
}

// TransferByUIDS returns a taken reference to the transfer with uids, or nil.
func (w *Wallet) TransferByUIDS(uids string) *Transfer {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, t := range w.transfers {
		if t.UIDS() == uids {
			return t.Take()
		}
	}
	return nil
}

// HasTransfer reports whether the wallet holds a transfer equal to t.
func (w *Wallet) HasTransfer(t *Transfer) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexOfLocked(t) >= 0
}

func (w *Wallet) indexOfLocked(t *Transfer) int {
	return slices.IndexFunc(w.transfers, t.Equal)
}

// CreateTransfer builds an outgoing transfer of amount to target. The
// transfer is not added to the wallet until it is submitted.
func (w *Wallet) CreateTransfer(target *Address, amount Amount, estimatedFeeBasis *FeeBasis, attributes []TransferAttribute) (*Transfer, error) {
	if target == nil || target.Type() != w.typ {
		return nil, ErrInvalidAddress
	}
	if !amount.Unit().IsCompatible(w.unit) || amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return w.handler.CreateTransfer(w.manager, w, target, amount, estimatedFeeBasis, attributes)
}

// DefaultFeeBasis returns a taken reference to the fee basis new transfers
// are estimated with, or nil.
func (w *Wallet) DefaultFeeBasis() *FeeBasis {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.defaultFeeBasis == nil {
		return nil
	}
	return w.defaultFeeBasis.Take()
}

// SetDefaultFeeBasis replaces the default fee basis and announces
// FEE_BASIS_UPDATED.
func (w *Wallet) SetDefaultFeeBasis(fb *FeeBasis) {
	w.mu.Lock()
	prev := w.defaultFeeBasis
	w.defaultFeeBasis = fb.Take()
	w.mu.Unlock()

	if prev != nil {
		prev.Give()
	}

	if w.manager != nil {
		w.manager.dispatcher.announceWallet(w.manager, w, WalletEvent{
			Type:     WalletEventFeeBasisUpdated,
			FeeBasis: fb.Take(),
		})
	}
}

// Equal compares wallets with the chain's equality.
func (w *Wallet) Equal(o *Wallet) bool {
	switch {
	case w == o:
		return true
	case w == nil, o == nil, w.typ != o.typ:
		return false
	}
	return w.handler.Equal(w, o)
}

// addTransfers appends every transfer not already held, taking a reference
// to each, and recomputes the balance. It returns the transfers actually
// added (borrowed) and whether the balance changed.
func (w *Wallet) addTransfers(ts []*Transfer) ([]*Transfer, Amount, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var added []*Transfer
	for _, t := range ts {
		if w.indexOfLocked(t) >= 0 {
			continue
		}
		w.transfers = append(w.transfers, t.Take())
		added = append(added, t)
	}

	if len(added) == 0 {
		return nil, w.balance, false
	}

	balance, changed := w.recomputeBalanceLocked()
	return added, balance, changed
}

// updateTransferState applies state to a held transfer atomically with the
// balance recomputation it may cause.
func (w *Wallet) updateTransferState(t *Transfer, state TransferState) (prev TransferState, changed bool, balance Amount, balanceChanged bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, changed = t.setState(state)
	if !changed {
		return prev, false, w.balance, false
	}

	balance, balanceChanged = w.recomputeBalanceLocked()
	return prev, true, balance, balanceChanged
}

func (w *Wallet) recomputeBalanceLocked() (Amount, bool) {
	balance := ComputeBalance(w.unit, w.transfers)
	changed := !balance.Equal(w.balance)
	w.balance = balance
	return balance, changed
}

// ComputeBalance sums transfers into a balance of unit's currency:
// received amounts minus sent amounts minus the fees the account paid.
// Errored transfers contribute nothing, an included but failed transfer
// only costs its fee, and fees count only when paid in unit's currency.
// A negative sum is reported as zero.
func ComputeBalance(unit Unit, transfers []*Transfer) Amount {
	sum := new(big.Int)

	for _, t := range transfers {
		state := t.State()
		if state.Type() == TransferStateErrored {
			continue
		}

		failed := false
		if inc, ok := state.Included(); ok && !inc.Success {
			failed = true
		}

		sameCurrency := t.Unit().IsCompatible(unit)
		paysFee := t.UnitForFee().IsCompatible(unit)

		switch t.Direction() {
		case DirectionReceived:
			if sameCurrency && !failed {
				sum.Add(sum, t.Amount().BigInt())
			}
		case DirectionSent:
			if sameCurrency && !failed {
				sum.Sub(sum, t.Amount().BigInt())
			}
			if paysFee {
				sum.Sub(sum, t.Fee().BigInt())
			}
		case DirectionRecovered:
			if paysFee {
				sum.Sub(sum, t.Fee().BigInt())
			}
		}
	}

	if sum.Sign() < 0 {
		return NewAmountFromUint64(unit, 0)
	}

	balance, err := NewAmountFromBig(unit, sum)
	if err != nil {
		return NewAmount(unit, new(uint256.Int).SetAllOne())
	}
	return balance
}
