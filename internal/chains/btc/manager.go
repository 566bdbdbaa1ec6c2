package btc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gabapcia/walletkit/internal/pkg/hdkey"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

type manager struct{ c *Chain }

func (h *manager) AddressSchemes() []walletkit.AddressScheme {
	return []walletkit.AddressScheme{walletkit.AddressSchemeBTCSegwit, walletkit.AddressSchemeBTCLegacy}
}

func (h *manager) CreateEngine(m *walletkit.WalletManager) (walletkit.Engine, error) {
	return walletkit.NewClientEngine(m, walletkit.RequestTransactions), nil
}

// CreateWallet creates the wallet of the network's own currency. The
// default fee basis prices a one-input, two-output transaction at the
// slowest network fee.
func (h *manager) CreateWallet(m *walletkit.WalletManager, currency walletkit.Currency) (*walletkit.Wallet, error) {
	n := m.Network()
	if !currency.Equal(n.Currency()) {
		return nil, fmt.Errorf("%w: %s", walletkit.ErrUnsupportedCurrency, currency.Code)
	}

	unit, ok := n.BaseUnit(currency)
	if !ok {
		return nil, walletkit.ErrUnsupportedCurrency
	}

	rate, _ := n.MinimumFee().PricePerCostFactor.Uint64()
	fb := h.c.newFeeBasis(unit, NewFeeBasis(rate, EstimateSize(1, 2)))
	defer fb.Give()

	return walletkit.NewWallet(walletkit.WalletConfig{
		Type:            walletkit.NetworkTypeBTC,
		Handler:         &h.c.wallet,
		Manager:         m,
		Unit:            unit,
		UnitForFee:      unit,
		DefaultFeeBasis: fb,
	}), nil
}

// Sign signs every input of the transfer's transaction with the key its
// previous output pays: a witness for P2WPKH outputs, a signature script
// otherwise.
func (h *manager) Sign(m *walletkit.WalletManager, w *walletkit.Wallet, t *walletkit.Transfer, seed []byte) error {
	key := accountKey(m)

	priv, err := h.c.accountKey(seed)
	if err != nil {
		return err
	}

	xpub, err := priv.Neuter()
	if err != nil {
		return err
	}
	if xpub.String() != key.XPub {
		return ErrWrongKey
	}

	tx := TransactionOf(t).Copy()
	if IsSigned(tx) {
		return nil
	}

	l := newLedger(key, w)
	prevOuts := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range tx.TxIn {
		out, ok := l.outputs[in.PreviousOutPoint]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownOutput, in.PreviousOutPoint)
		}
		prevOuts.AddPrevOut(in.PreviousOutPoint, out)
	}
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)

	for i, in := range tx.TxIn {
		out := prevOuts.FetchPrevOutput(in.PreviousOutPoint)

		path, ok := key.OwnsScript(out.PkScript)
		if !ok {
			return fmt.Errorf("%w: %s does not pay the account", ErrUnknownOutput, in.PreviousOutPoint)
		}

		child, err := hdkey.DeriveChildren(priv, path.Branch, path.Index)
		if err != nil {
			return err
		}

		signer, err := child.ECPrivKey()
		if err != nil {
			return err
		}

		if txscript.IsPayToWitnessPubKeyHash(out.PkScript) {
			in.Witness, err = txscript.WitnessSignature(tx, sigHashes, i, out.Value, out.PkScript, txscript.SigHashAll, signer, true)
		} else {
			in.SignatureScript, err = txscript.SignatureScript(tx, i, out.PkScript, txscript.SigHashAll, signer, true)
		}
		if err != nil {
			return fmt.Errorf("sign input %d: %w", i, err)
		}
	}

	t.SetBasis(walletkit.TransactionBasis{Transaction: tx})
	return nil
}

// EstimateFeeBasis selects coins for amount at the rate of fee. Bitcoin fees
// depend only on the transaction size, so no client round trip is needed.
func (h *manager) EstimateFeeBasis(_ context.Context, m *walletkit.WalletManager, w *walletkit.Wallet, _ *walletkit.Address, amount walletkit.Amount, fee walletkit.NetworkFee, _ []walletkit.TransferAttribute) (*walletkit.FeeBasis, error) {
	rate, ok := fee.PricePerCostFactor.Uint64()
	if !ok {
		return nil, walletkit.ErrAmountOverflow
	}

	v, ok := amount.Uint64()
	if !ok || v > btcutil.MaxSatoshi {
		return nil, walletkit.ErrAmountOverflow
	}

	s, err := selectCoins(newLedger(accountKey(m), w).Unspent(), int64(v), rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", walletkit.ErrFeeEstimateUnavailable, err)
	}
	return h.c.newFeeBasis(w.UnitForFee(), s.fee), nil
}

func (h *manager) RecoverTransfer(context.Context, *walletkit.WalletManager, walletkit.TransferBundle) (walletkit.Recovered, error) {
	return walletkit.Recovered{}, walletkit.ErrNotImplemented
}

// RecoverTransaction derives the transfer of a raw transaction. Inputs
// belong to the account when they reveal one of its keys, outputs when
// they pay one. Spending to nobody else is RECOVERED.
func (h *manager) RecoverTransaction(_ context.Context, m *walletkit.WalletManager, b walletkit.TransactionBundle) (walletkit.Recovered, error) {
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(b.Serialization)); err != nil {
		return walletkit.Recovered{}, fmt.Errorf("deserialize transaction: %w", err)
	}

	w := m.Wallet()
	r, err := h.recover(m, w, tx, b)
	if err != nil {
		w.Give()
		return walletkit.Recovered{}, err
	}
	return r, nil
}

func (h *manager) recover(m *walletkit.WalletManager, w *walletkit.Wallet, tx *wire.MsgTx, b walletkit.TransactionBundle) (walletkit.Recovered, error) {
	key := accountKey(m)

	var source, target btcutil.Address
	isSource := false
	for _, in := range tx.TxIn {
		if _, ok := key.ownsPublicKey(inputPublicKey(in)); ok {
			isSource = true
			source = h.c.inputAddress(in)
			break
		}
	}
	if source == nil && len(tx.TxIn) > 0 {
		source = h.c.inputAddress(tx.TxIn[0])
	}

	var (
		outputTotal, owned, foreign int64
		firstOwned, firstForeign    btcutil.Address
		ownsAny                     bool
	)
	ownsAll := len(tx.TxOut) > 0
	for _, out := range tx.TxOut {
		outputTotal += out.Value
		if _, ok := key.OwnsScript(out.PkScript); ok {
			ownsAny = true
			owned += out.Value
			if firstOwned == nil {
				firstOwned = h.c.outputAddress(out)
			}
			continue
		}

		ownsAll = false
		foreign += out.Value
		if firstForeign == nil {
			firstForeign = h.c.outputAddress(out)
		}
	}

	// A send's change comes back to the account; it is a target only when
	// nothing leaves.
	isTarget := ownsAny
	if isSource {
		isTarget = ownsAll
	}

	direction, err := walletkit.DeriveDirection(isSource, isTarget)
	if err != nil {
		return walletkit.Recovered{}, fmt.Errorf("%w: %s", err, tx.TxHash())
	}

	var value int64
	switch direction {
	case walletkit.DirectionSent:
		value, target = foreign, firstForeign
	case walletkit.DirectionReceived:
		value, target = owned, firstOwned
	case walletkit.DirectionRecovered:
		value, target = outputTotal, firstOwned
	}

	var fee uint64
	if inputs, ok := newLedger(key, w).inputValue(tx); ok && inputs > outputTotal {
		fee = uint64(inputs - outputTotal)
	}

	unit := w.UnitForFee()
	fb := h.c.newFeeBasis(unit, ActualFeeBasis(fee, uint64(tx.SerializeSize())))

	state := walletkit.DeriveTransferState(b.Status, walletkit.TransferIncluded{
		BlockNumber: b.BlockHeight,
		Timestamp:   b.Timestamp,
		FeeBasis:    fb,
		Success:     true,
	})

	if existing := w.TransferByHash(walletkit.NewHash(walletkit.NetworkTypeBTC, tx.TxHash().String())); existing != nil {
		return walletkit.NewRecovered(w, existing, state, false, fb), nil
	}

	var from, to *walletkit.Address
	if source != nil {
		from = h.c.NewAddress(source)
		defer from.Give()
	}
	if target != nil {
		to = h.c.NewAddress(target)
		defer to.Give()
	}

	t := walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              walletkit.NetworkTypeBTC,
		Handler:           &h.c.transfer,
		Source:            from,
		Target:            to,
		Amount:            walletkit.NewAmountFromUint64(w.Unit(), uint64(value)),
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             state,
		Basis:             walletkit.TransactionBasis{Transaction: tx},
	})
	return walletkit.NewRecovered(w, t, state, true, fb), nil
}
