package eth

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Bundle attributes read during recovery. Names are matched case-insensitively.
const (
	AttributeGasLimit = "gasLimit"
	AttributeGasUsed  = "gasUsed"
	AttributeGasPrice = "gasPrice"
	AttributeNonce    = "nonce"
	AttributeStatus   = "status"
	AttributeInternal = "internal"
)

type bundleAttributes map[string]string

func (a bundleAttributes) get(key string) (string, bool) {
	for k, v := range a {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (a bundleAttributes) uint64(key string) (uint64, bool) {
	s, ok := a.get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 0, 64)
	return v, err == nil
}

func (a bundleAttributes) uint256(key string) (*uint256.Int, bool) {
	s, ok := a.get(key)
	if !ok {
		return nil, false
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		if v, err = uint256.FromHex(s); err != nil {
			return nil, false
		}
	}
	return v, true
}

// currencyOf resolves the bundle currency, given as a code, a currency
// uids or a token contract address.
func currencyOf(n *walletkit.Network, s string) (walletkit.Currency, bool) {
	if c, ok := n.CurrencyByCode(s); ok {
		return c, true
	}
	if c, ok := n.CurrencyByUIDS(s); ok {
		return c, true
	}
	return n.CurrencyByIssuer(s)
}

// gasOf reads the gas figures of a bundle, filling what the client left out
// from the total fee.
func gasOf(attrs bundleAttributes, fee *uint256.Int) (limit, used uint64, price *uint256.Int) {
	used, hasUsed := attrs.uint64(AttributeGasUsed)
	price, hasPrice := attrs.uint256(AttributeGasPrice)

	switch {
	case hasUsed && hasPrice:
	case hasUsed && used > 0:
		price = new(uint256.Int).Div(fee, uint256.NewInt(used))
	default:
		used, price = 1, fee
	}

	limit, ok := attrs.uint64(AttributeGasLimit)
	if !ok {
		limit = used
	}
	return limit, used, price
}

// RecoverTransfer maps a bundle onto the wallet of its currency, creating
// token wallets as their transfers are discovered.
func (h *manager) RecoverTransfer(_ context.Context, m *walletkit.WalletManager, b walletkit.TransferBundle) (walletkit.Recovered, error) {
	currency, ok := currencyOf(m.Network(), b.Currency)
	if !ok {
		return walletkit.Recovered{}, fmt.Errorf("%w: %s", walletkit.ErrUnsupportedCurrency, b.Currency)
	}

	w, err := m.CreateWallet(currency)
	if err != nil {
		return walletkit.Recovered{}, err
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

	key := accountKey(m)
	direction, err := walletkit.DeriveDirection(addressOf(source) == key.Address, addressOf(target) == key.Address)
	if err != nil {
		return walletkit.Recovered{}, err
	}

	amount, err := walletkit.ParseAmount(w.Unit(), b.Amount)
	if err != nil {
		return walletkit.Recovered{}, err
	}

	fee := new(uint256.Int)
	if b.Fee != "" {
		f, err := walletkit.ParseAmount(w.UnitForFee(), b.Fee)
		if err != nil {
			return walletkit.Recovered{}, err
		}
		fee = f.Value()
	}

	attrs := bundleAttributes(b.Attributes)
	hash := common.HexToHash(b.Hash)
	nonce := fn.None[uint64]()
	if n, ok := attrs.uint64(AttributeNonce); ok {
		nonce = fn.Some(n)
	}

	var (
		basis     walletkit.Basis
		estimated *walletkit.FeeBasis
		confirmed *walletkit.FeeBasis
	)
	switch {
	case !w.Currency().IsNative():
		basis = walletkit.LogBasis{Log: &Log{
			Hash:     hash,
			Index:    b.TransferIndex,
			Contract: common.HexToAddress(w.Currency().Issuer),
			Nonce:    nonce,
		}}
		estimated = h.c.NewFeeBasis(w.UnitForFee(), 0, nil)
		confirmed = estimated.Take()
	case isInternal(attrs):
		basis = walletkit.ExchangeBasis{Exchange: &Exchange{Hash: hash, Index: b.TransferIndex, Contract: addressOf(source)}}
		estimated = h.c.NewFeeBasis(w.UnitForFee(), 0, nil)
		confirmed = estimated.Take()
	default:
		limit, used, price := gasOf(attrs, fee)
		basis = walletkit.TransactionBasis{Transaction: &Transaction{Hash: hash, Nonce: nonce}}
		estimated = h.c.NewFeeBasis(w.UnitForFee(), limit, price)
		confirmed = h.c.NewFeeBasis(w.UnitForFee(), used, price)
	}
	defer estimated.Give()

	success, errorMessage := true, ""
	if s, ok := attrs.get(AttributeStatus); ok && s == "0" {
		success, errorMessage = false, "reverted"
	}
	state := walletkit.DeriveTransferState(b.Status, b.Included(confirmed, success, errorMessage))

	if t := findTransfer(w, basis); t != nil {
		return walletkit.NewRecovered(w, t, state, false, confirmed), nil
	}

	t := walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              walletkit.NetworkTypeETH,
		Handler:           &h.c.transfer,
		UIDS:              b.UIDS,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: estimated,
		State:             state,
		Basis:             basis,
	})
	return walletkit.NewRecovered(w, t, state, true, confirmed), nil
}

func isInternal(attrs bundleAttributes) bool {
	v, ok := attrs.get(AttributeInternal)
	return ok && strings.EqualFold(v, "true")
}

// findTransfer returns a taken reference to the transfer of w backed by the
// same artifact as basis, or nil.
func findTransfer(w *walletkit.Wallet, basis walletkit.Basis) *walletkit.Transfer {
	id := identityOf(basis)

	var found *walletkit.Transfer
	for _, t := range w.Transfers() {
		if found == nil && identityOf(t.Basis()).matches(id) {
			found = t
			continue
		}
		t.Give()
	}
	return found
}
