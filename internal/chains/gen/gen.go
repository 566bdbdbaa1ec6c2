package gen

import (
	"context"
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// Chain adapts a Plugin to the walletkit handler interfaces.
type Chain struct {
	plugin Plugin

	account  account
	address  address
	feeBasis feeBasis
	transfer transfer
	wallet   wallet
	manager  manager
}

// New returns the handlers of plugin's chain.
func New(plugin Plugin) *Chain {
	c := &Chain{plugin: plugin}
	c.account.c, c.address.c, c.feeBasis.c = c, c, c
	c.transfer.c, c.wallet.c, c.manager.c = c, c, c
	return c
}

func (c *Chain) Plugin() Plugin { return c.plugin }

// Handlers returns the handler bundle to register. Generic chains support
// neither connectors nor sweeping.
func (c *Chain) Handlers() *walletkit.Handlers {
	return &walletkit.Handlers{
		Type:     c.plugin.Type(),
		Account:  &c.account,
		Address:  &c.address,
		FeeBasis: &c.feeBasis,
		Transfer: &c.transfer,
		Wallet:   &c.wallet,
		Manager:  &c.manager,
	}
}

func (c *Chain) newAddress(s string) *walletkit.Address {
	return walletkit.NewAddress(c.plugin.Type(), &c.address, s)
}

// NewFeeBasis wraps a plugin fee basis priced in unit.
func (c *Chain) NewFeeBasis(unit walletkit.Unit, fb FeeBasis) *walletkit.FeeBasis {
	return walletkit.NewFeeBasis(c.plugin.Type(), &c.feeBasis, unit, fb)
}

func (c *Chain) accountOf(m *walletkit.WalletManager) Account {
	k, _ := m.Account().Key(c.plugin.Type())
	return k.(Account)
}

// TransactionOf returns the basis payload of t.
func TransactionOf(t *walletkit.Transfer) Transaction {
	return *t.Basis().(walletkit.TransactionBasis).Transaction.(*Transaction)
}

type account struct{ c *Chain }

func (a *account) DeriveKey(seed []byte) (any, error) {
	return a.c.plugin.DeriveAccount(seed)
}

func (a *account) Address(key any, scheme walletkit.AddressScheme) (*walletkit.Address, error) {
	if scheme != walletkit.AddressSchemeGENDefault {
		return nil, walletkit.ErrUnsupportedAddressScheme
	}
	return a.c.newAddress(key.(Account).Address), nil
}

func (a *account) HasAddress(key any, addr *walletkit.Address) bool {
	return addr.Native().(string) == key.(Account).Address
}

func (a *account) Addresses(key any) []string {
	return []string{key.(Account).Address}
}

type address struct{ c *Chain }

func (h *address) Parse(s string) (*walletkit.Address, error) {
	canonical, err := h.c.plugin.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", walletkit.ErrInvalidAddress, s, err)
	}
	return h.c.newAddress(canonical), nil
}

func (h *address) String(a *walletkit.Address) string {
	return a.Native().(string)
}

func (h *address) Equal(a, b *walletkit.Address) bool {
	return a.Native().(string) == b.Native().(string)
}

type feeBasis struct{ c *Chain }

func (h *feeBasis) Fee(fb *walletkit.FeeBasis) walletkit.Amount {
	return walletkit.NewAmountFromUint64(fb.Unit(), fb.Native().(FeeBasis).Fee())
}

func (h *feeBasis) CostFactor(fb *walletkit.FeeBasis) float64 {
	return fb.Native().(FeeBasis).CostFactor()
}

func (h *feeBasis) PricePerCostFactor(fb *walletkit.FeeBasis) walletkit.Amount {
	return walletkit.NewAmountFromUint64(fb.Unit(), fb.Native().(FeeBasis).PricePerCostFactor())
}

func (h *feeBasis) Equal(a, b *walletkit.FeeBasis) bool {
	return a.Native().(FeeBasis).Equal(b.Native().(FeeBasis))
}

type transfer struct{ c *Chain }

func (h *transfer) Hash(t *walletkit.Transfer) (walletkit.Hash, bool) {
	tx := TransactionOf(t)
	if tx.Hash == "" {
		return walletkit.Hash{}, false
	}
	return walletkit.NewHash(h.c.plugin.Type(), tx.Hash), true
}

func (h *transfer) Serialize(t *walletkit.Transfer, _ *walletkit.Network, requireSignature bool) ([]byte, error) {
	tx := TransactionOf(t)
	switch {
	case requireSignature && !tx.Signed:
		return nil, walletkit.ErrSerializationWithoutSignature
	case len(tx.Serialization) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNoTransaction, t.UIDS())
	}
	return tx.Serialization, nil
}

// Equal matches by hash and target once both transfers are hashed: one
// operation may carry several transfers, such as a burn next to the payment.
func (h *transfer) Equal(a, b *walletkit.Transfer) bool {
	ta, tb := TransactionOf(a), TransactionOf(b)
	if ta.Hash != "" && tb.Hash != "" {
		return ta.Hash == tb.Hash && ta.Target == tb.Target
	}
	return a.UIDS() == b.UIDS()
}

type wallet struct{ c *Chain }

func (h *wallet) CreateTransfer(m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, estimatedFeeBasis *walletkit.FeeBasis, attributes []walletkit.TransferAttribute) (*walletkit.Transfer, error) {
	acct := h.c.accountOf(m)
	to := target.Native().(string)

	direction, err := walletkit.DeriveDirection(true, to == acct.Address)
	if err != nil {
		return nil, err
	}

	value, ok := amount.Uint64()
	if !ok {
		return nil, walletkit.ErrAmountOverflow
	}

	fb := estimatedFeeBasis
	if fb == nil {
		if fb = w.DefaultFeeBasis(); fb == nil {
			return nil, walletkit.ErrFeeEstimateUnavailable
		}
		defer fb.Give()
	}

	tx, err := h.c.plugin.CreateTransaction(acct, to, value, fb.Native().(FeeBasis), attributes)
	if err != nil {
		return nil, err
	}

	source := h.c.newAddress(acct.Address)
	defer source.Give()

	return walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              h.c.plugin.Type(),
		Handler:           &h.c.transfer,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             walletkit.StateCreated(),
		Attributes:        attributes,
		Basis:             walletkit.TransactionBasis{Transaction: &tx},
	}), nil
}

func (h *wallet) Equal(a, b *walletkit.Wallet) bool {
	return a == b
}

// hasSent reports whether w holds an outgoing transfer that was not rejected.
func hasSent(w *walletkit.Wallet) bool {
	sent := false
	for _, t := range w.Transfers() {
		if t.Direction() != walletkit.DirectionReceived && t.State().Type() != walletkit.TransferStateErrored {
			if _, ok := t.Hash(); ok {
				sent = true
			}
		}
		t.Give()
	}
	return sent
}

func (h *manager) signContext(m *walletkit.WalletManager, w *walletkit.Wallet) SignContext {
	return SignContext{
		Account:       h.c.accountOf(m),
		LastBlockHash: m.Network().VerifiedBlockHash(),
		HasSent:       hasSent(w),
	}
}

type manager struct{ c *Chain }

func (h *manager) AddressSchemes() []walletkit.AddressScheme {
	return []walletkit.AddressScheme{walletkit.AddressSchemeGENDefault}
}

func (h *manager) CreateEngine(m *walletkit.WalletManager) (walletkit.Engine, error) {
	return walletkit.NewClientEngine(m, walletkit.RequestTransfers), nil
}

// CreateWallet creates the wallet of the network's own currency, the only
// one generic chains hold.
func (h *manager) CreateWallet(m *walletkit.WalletManager, currency walletkit.Currency) (*walletkit.Wallet, error) {
	n := m.Network()
	if !currency.Equal(n.Currency()) {
		return nil, fmt.Errorf("%w: %s", walletkit.ErrUnsupportedCurrency, currency.Code)
	}

	unit, ok := n.BaseUnit(currency)
	if !ok {
		return nil, walletkit.ErrUnsupportedCurrency
	}

	price, _ := n.MinimumFee().PricePerCostFactor.Uint64()
	fb := h.c.NewFeeBasis(unit, h.c.plugin.DefaultFeeBasis(price))
	defer fb.Give()

	return walletkit.NewWallet(walletkit.WalletConfig{
		Type:            h.c.plugin.Type(),
		Handler:         &h.c.wallet,
		Manager:         m,
		Unit:            unit,
		UnitForFee:      unit,
		DefaultFeeBasis: fb,
	}), nil
}

func (h *manager) Sign(m *walletkit.WalletManager, w *walletkit.Wallet, t *walletkit.Transfer, seed []byte) error {
	sc := h.signContext(m, w)

	derived, err := h.c.plugin.DeriveAccount(seed)
	if err != nil {
		return err
	}
	if derived.Address != sc.Account.Address {
		return ErrWrongKey
	}

	tx := TransactionOf(t)
	if tx.Signed {
		return nil
	}

	signed, err := h.c.plugin.Sign(tx, seed, sc)
	if err != nil {
		return err
	}

	t.SetBasis(walletkit.TransactionBasis{Transaction: &signed})
	return nil
}

// EstimateFeeBasis serializes a draft of the transfer for the client to
// simulate, then lets the plugin price the result.
func (h *manager) EstimateFeeBasis(ctx context.Context, m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, fee walletkit.NetworkFee, attributes []walletkit.TransferAttribute) (*walletkit.FeeBasis, error) {
	price, ok := fee.PricePerCostFactor.Uint64()
	if !ok {
		return nil, walletkit.ErrAmountOverflow
	}

	initial := h.c.NewFeeBasis(w.UnitForFee(), h.c.plugin.DefaultFeeBasis(price))
	defer initial.Give()

	t, err := h.c.wallet.CreateTransfer(m, w, target, amount, initial, attributes)
	if err != nil {
		return nil, err
	}
	defer t.Give()

	tx, err := h.c.plugin.PrepareForFeeEstimation(TransactionOf(t), h.signContext(m, w))
	if err != nil {
		return nil, err
	}

	estimate, err := m.Client().EstimateTransactionFee(ctx, m.Network(), walletkit.FeeEstimateRequest{
		Serialization: tx.Serialization,
		Hash:          tx.Hash,
		Source:        tx.Source,
		Target:        tx.Target,
		Amount:        amount.String(),
	})
	if err != nil {
		return nil, err
	}

	fb, err := h.c.plugin.EstimatedFeeBasis(tx, price, estimate)
	if err != nil {
		return nil, err
	}
	return h.c.NewFeeBasis(w.UnitForFee(), fb), nil
}

func (h *manager) RecoverTransaction(context.Context, *walletkit.WalletManager, walletkit.TransactionBundle) (walletkit.Recovered, error) {
	return walletkit.Recovered{}, walletkit.ErrNotImplemented
}
