package gen

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// RecoverTransfer maps a bundle onto the primary wallet. A transaction may
// carry several transfers sharing its hash, so an existing transfer is
// matched by hash or uids together with its target.
func (h *manager) RecoverTransfer(_ context.Context, m *walletkit.WalletManager, b walletkit.TransferBundle) (walletkit.Recovered, error) {
	n := m.Network()

	c, ok := n.CurrencyByCode(b.Currency)
	if !ok {
		c, ok = n.CurrencyByUIDS(b.Currency)
	}
	if !ok || !c.Equal(n.Currency()) {
		return walletkit.Recovered{}, fmt.Errorf("%w: %s", walletkit.ErrUnsupportedCurrency, b.Currency)
	}

	w := m.Wallet()
	recovered, err := h.recover(m, w, b)
	if err != nil {
		w.Give()
	}
	return recovered, err
}

func (h *manager) parseAddress(s string) (string, error) {
	if s == UnknownAddress {
		return s, nil
	}
	return h.c.plugin.ParseAddress(s)
}

func (h *manager) recover(m *walletkit.WalletManager, w *walletkit.Wallet, b walletkit.TransferBundle) (walletkit.Recovered, error) {
	from, err := h.parseAddress(b.From)
	if err != nil {
		return walletkit.Recovered{}, fmt.Errorf("%w: %q: %w", walletkit.ErrInvalidAddress, b.From, err)
	}
	to, err := h.parseAddress(b.To)
	if err != nil {
		return walletkit.Recovered{}, fmt.Errorf("%w: %q: %w", walletkit.ErrInvalidAddress, b.To, err)
	}

	self := h.c.accountOf(m).Address
	direction, err := walletkit.DeriveDirection(from == self, to == self)
	if err != nil {
		return walletkit.Recovered{}, err
	}

	value, err := strconv.ParseUint(b.Amount, 10, 64)
	if err != nil {
		return walletkit.Recovered{}, fmt.Errorf("%w: %q", walletkit.ErrInvalidAmount, b.Amount)
	}

	var fee uint64
	if b.Fee != "" {
		if fee, err = strconv.ParseUint(b.Fee, 10, 64); err != nil {
			return walletkit.Recovered{}, fmt.Errorf("%w: fee %q", walletkit.ErrInvalidAmount, b.Fee)
		}
	}

	fb := h.c.NewFeeBasis(w.UnitForFee(), h.c.plugin.ActualFeeBasis(fee))
	state := walletkit.DeriveTransferState(b.Status, b.Included(fb, true, ""))

	if t := findTransfer(w, b.Hash, b.UIDS, to); t != nil {
		return walletkit.NewRecovered(w, t, state, false, fb), nil
	}

	source := h.c.newAddress(from)
	defer source.Give()
	target := h.c.newAddress(to)
	defer target.Give()

	t := walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              h.c.plugin.Type(),
		Handler:           &h.c.transfer,
		UIDS:              b.UIDS,
		Source:            source,
		Target:            target,
		Amount:            walletkit.NewAmountFromUint64(w.Unit(), value),
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             state,
		Basis: walletkit.TransactionBasis{Transaction: &Transaction{
			Hash:     b.Hash,
			Source:   from,
			Target:   to,
			Amount:   value,
			FeeBasis: h.c.plugin.ActualFeeBasis(fee),
			Signed:   true,
		}},
	})
	return walletkit.NewRecovered(w, t, state, true, fb), nil
}

// findTransfer returns a taken reference to the transfer of w with target
// and either hash or uids, or nil.
func findTransfer(w *walletkit.Wallet, hash, uids, target string) *walletkit.Transfer {
	var found *walletkit.Transfer
	for _, t := range w.Transfers() {
		tx := TransactionOf(t)
		if found == nil && tx.Target == target && ((hash != "" && tx.Hash == hash) || t.UIDS() == uids) {
			found = t
			continue
		}
		t.Give()
	}
	return found
}
