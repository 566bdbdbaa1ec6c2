// Package walletkittest provides an in-memory chain family and a recording
// listener for tests of code built on walletkit.
package walletkittest

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// DefaultFee is the fee, in base units, of the default fee basis.
const DefaultFee = 10

// Tx is the basis payload of every transfer of the chain.
type Tx struct {
	Hash   string
	Signed bool
}

// FeeBasis is the native fee basis: Units cost units at Price each.
type FeeBasis struct {
	Price uint64
	Units uint64
}

// Chain is a minimal account-based chain whose addresses are plain strings.
// Its account key is derived from the first bytes of the seed.
type Chain struct {
	Type walletkit.NetworkType

	mu      sync.Mutex
	signErr error

	account  account
	address  address
	feeBasis feeBasis
	transfer transfer
	wallet   wallet
	manager  manager
}

// NewChain returns a chain registered under typ.
func NewChain(typ walletkit.NetworkType) *Chain {
	c := &Chain{Type: typ}
	c.account.c, c.address.c, c.feeBasis.c = c, c, c
	c.transfer.c, c.wallet.c, c.manager.c = c, c, c
	return c
}

// FailSigning makes every later Sign fail with err; nil restores signing.
func (c *Chain) FailSigning(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signErr = err
}

// Handlers returns the chain's handler bundle.
func (c *Chain) Handlers() *walletkit.Handlers {
	return &walletkit.Handlers{
		Type:     c.Type,
		Account:  &c.account,
		Address:  &c.address,
		FeeBasis: &c.feeBasis,
		Transfer: &c.transfer,
		Wallet:   &c.wallet,
		Manager:  &c.manager,
	}
}

// NewFeeBasis returns a fee basis of units at price in unit.
func (c *Chain) NewFeeBasis(unit walletkit.Unit, price, units uint64) *walletkit.FeeBasis {
	return walletkit.NewFeeBasis(c.Type, &c.feeBasis, unit, FeeBasis{Price: price, Units: units})
}

// KeyFor returns the address string the chain derives for seed.
func KeyFor(seed []byte) string {
	return "acct-" + hex.EncodeToString(seed[:4])
}

func txOf(t *walletkit.Transfer) Tx {
	return *t.Basis().(walletkit.TransactionBasis).Transaction.(*Tx)
}

type account struct{ c *Chain }

func (a *account) DeriveKey(seed []byte) (any, error) {
	if len(seed) < 4 {
		return nil, fmt.Errorf("seed too short")
	}
	return KeyFor(seed), nil
}

func (a *account) Address(key any, scheme walletkit.AddressScheme) (*walletkit.Address, error) {
	if scheme != walletkit.AddressSchemeGENDefault {
		return nil, walletkit.ErrUnsupportedAddressScheme
	}
	return walletkit.NewAddress(a.c.Type, &a.c.address, key.(string)), nil
}

func (a *account) HasAddress(key any, address *walletkit.Address) bool {
	return address.Native().(string) == key.(string)
}

func (a *account) Addresses(key any) []string {
	return []string{key.(string)}
}

type address struct{ c *Chain }

func (a *address) Parse(s string) (*walletkit.Address, error) {
	if s == "" {
		return nil, walletkit.ErrInvalidAddress
	}
	return walletkit.NewAddress(a.c.Type, a, s), nil
}

func (a *address) String(addr *walletkit.Address) string {
	return addr.Native().(string)
}

func (a *address) Equal(x, y *walletkit.Address) bool {
	return x.Native().(string) == y.Native().(string)
}

type feeBasis struct{ c *Chain }

func (f *feeBasis) Fee(fb *walletkit.FeeBasis) walletkit.Amount {
	n := fb.Native().(FeeBasis)
	return walletkit.NewAmountFromUint64(fb.Unit(), n.Price*n.Units)
}

func (f *feeBasis) CostFactor(fb *walletkit.FeeBasis) float64 {
	return float64(fb.Native().(FeeBasis).Units)
}

func (f *feeBasis) PricePerCostFactor(fb *walletkit.FeeBasis) walletkit.Amount {
	return walletkit.NewAmountFromUint64(fb.Unit(), fb.Native().(FeeBasis).Price)
}

func (f *feeBasis) Equal(a, b *walletkit.FeeBasis) bool {
	return a.Native().(FeeBasis) == b.Native().(FeeBasis)
}

type transfer struct{ c *Chain }

func (h *transfer) Hash(t *walletkit.Transfer) (walletkit.Hash, bool) {
	tx := txOf(t)
	if tx.Hash == "" {
		return walletkit.Hash{}, false
	}
	return walletkit.NewHash(h.c.Type, tx.Hash), true
}

func (h *transfer) Serialize(t *walletkit.Transfer, _ *walletkit.Network, requireSignature bool) ([]byte, error) {
	tx := txOf(t)
	if requireSignature && !tx.Signed {
		return nil, walletkit.ErrSerializationWithoutSignature
	}
	return []byte(tx.Hash + "|" + t.UIDS()), nil
}

func (h *transfer) Equal(a, b *walletkit.Transfer) bool {
	ha, okA := h.Hash(a)
	hb, okB := h.Hash(b)
	if okA && okB {
		return ha == hb
	}
	return a.UIDS() == b.UIDS()
}

type wallet struct{ c *Chain }

func (h *wallet) CreateTransfer(m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, fb *walletkit.FeeBasis, attributes []walletkit.TransferAttribute) (*walletkit.Transfer, error) {
	source, err := m.Address()
	if err != nil {
		return nil, err
	}
	defer source.Give()

	direction, err := walletkit.DeriveDirection(true, m.Account().HasAddress(target))
	if err != nil {
		return nil, err
	}

	if fb == nil {
		fb = w.DefaultFeeBasis()
		defer fb.Give()
	}

	return walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              h.c.Type,
		Handler:           &h.c.transfer,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             walletkit.StateCreated(),
		Attributes:        attributes,
		Basis:             walletkit.TransactionBasis{Transaction: &Tx{}},
	}), nil
}

func (h *wallet) Equal(a, b *walletkit.Wallet) bool {
	return a.Currency().Equal(b.Currency())
}

type manager struct{ c *Chain }

func (h *manager) AddressSchemes() []walletkit.AddressScheme {
	return []walletkit.AddressScheme{walletkit.AddressSchemeGENDefault}
}

func (h *manager) CreateEngine(m *walletkit.WalletManager) (walletkit.Engine, error) {
	return walletkit.NewClientEngine(m, walletkit.RequestTransfers), nil
}

func (h *manager) CreateWallet(m *walletkit.WalletManager, currency walletkit.Currency) (*walletkit.Wallet, error) {
	n := m.Network()

	unit, ok := n.BaseUnit(currency)
	if !ok {
		return nil, walletkit.ErrUnsupportedCurrency
	}
	feeUnit, _ := n.BaseUnit(n.Currency())

	fb := h.c.NewFeeBasis(feeUnit, 1, DefaultFee)
	defer fb.Give()

	return walletkit.NewWallet(walletkit.WalletConfig{
		Type:            h.c.Type,
		Handler:         &h.c.wallet,
		Manager:         m,
		Unit:            unit,
		UnitForFee:      feeUnit,
		DefaultFeeBasis: fb,
	}), nil
}

func (h *manager) Sign(_ *walletkit.WalletManager, _ *walletkit.Wallet, t *walletkit.Transfer, _ []byte) error {
	h.c.mu.Lock()
	err := h.c.signErr
	h.c.mu.Unlock()
	if err != nil {
		return err
	}

	t.SetBasis(walletkit.TransactionBasis{Transaction: &Tx{Hash: "0x" + t.UIDS(), Signed: true}})
	return nil
}

func (h *manager) EstimateFeeBasis(ctx context.Context, m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, fee walletkit.NetworkFee, _ []walletkit.TransferAttribute) (*walletkit.FeeBasis, error) {
	estimate, err := m.Client().EstimateTransactionFee(ctx, m.Network(), walletkit.FeeEstimateRequest{
		Target: target.String(),
		Amount: amount.String(),
	})
	if err != nil {
		return nil, err
	}

	price, ok := fee.PricePerCostFactor.Uint64()
	if !ok {
		return nil, walletkit.ErrAmountOverflow
	}
	return h.c.NewFeeBasis(w.UnitForFee(), price, estimate.CostUnits), nil
}

func (h *manager) RecoverTransfer(_ context.Context, m *walletkit.WalletManager, b walletkit.TransferBundle) (walletkit.Recovered, error) {
	n := m.Network()

	currency, ok := n.CurrencyByCode(b.Currency)
	if !ok {
		return walletkit.Recovered{}, fmt.Errorf("%w: %s", walletkit.ErrUnsupportedCurrency, b.Currency)
	}

	w := m.WalletForCurrency(currency)
	if w == nil {
		return walletkit.Recovered{}, walletkit.ErrUnknownWallet
	}

	recovered, err := h.recover(m, w, b)
	if err != nil {
		w.Give()
	}
	return recovered, err
}

func (h *manager) recover(m *walletkit.WalletManager, w *walletkit.Wallet, b walletkit.TransferBundle) (walletkit.Recovered, error) {
	source, err := h.c.address.Parse(b.From)
	if err != nil {
		return walletkit.Recovered{}, err
	}
	defer source.Give()

	target, err := h.c.address.Parse(b.To)
	if err != nil {
		return walletkit.Recovered{}, err
	}
	defer target.Give()

	direction, err := walletkit.DeriveDirection(m.Account().HasAddress(source), m.Account().HasAddress(target))
	if err != nil {
		return walletkit.Recovered{}, err
	}

	amount, err := walletkit.ParseAmount(w.Unit(), b.Amount)
	if err != nil {
		return walletkit.Recovered{}, err
	}

	fee := uint64(0)
	if b.Fee != "" {
		f, err := walletkit.ParseAmount(w.UnitForFee(), b.Fee)
		if err != nil {
			return walletkit.Recovered{}, err
		}
		fee, _ = f.Uint64()
	}

	fb := h.c.NewFeeBasis(w.UnitForFee(), fee, 1)
	state := walletkit.DeriveTransferState(b.Status, b.Included(fb, true, ""))

	if t := w.TransferByHash(walletkit.NewHash(h.c.Type, b.Hash)); t != nil {
		return walletkit.NewRecovered(w, t, state, false, fb), nil
	}

	t := walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              h.c.Type,
		Handler:           &h.c.transfer,
		UIDS:              b.UIDS,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             state,
		Basis:             walletkit.TransactionBasis{Transaction: &Tx{Hash: b.Hash, Signed: true}},
	})
	return walletkit.NewRecovered(w, t, state, true, fb), nil
}

func (h *manager) RecoverTransaction(context.Context, *walletkit.WalletManager, walletkit.TransactionBundle) (walletkit.Recovered, error) {
	return walletkit.Recovered{}, walletkit.ErrNotImplemented
}
