package btc

import (
	"cmp"
	"slices"

	"github.com/gabapcia/walletkit/internal/pkg/refcount"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// Output is a transaction output paying one of the account's keys.
type Output struct {
	OutPoint wire.OutPoint
	TxOut    *wire.TxOut
	Path     KeyPath
}

// ledger indexes the transactions of a wallet's transfers. Errored
// transfers are left out so their inputs become spendable again.
type ledger struct {
	outputs map[wire.OutPoint]*wire.TxOut
	spent   map[wire.OutPoint]bool
	owned   []Output
}

func newLedger(key *Key, w *walletkit.Wallet) *ledger {
	l := &ledger{
		outputs: make(map[wire.OutPoint]*wire.TxOut),
		spent:   make(map[wire.OutPoint]bool),
	}

	ts := w.Transfers()
	defer refcount.GiveAll(ts)

	for _, t := range ts {
		if t.State().Type() == walletkit.TransferStateErrored {
			continue
		}
		l.add(key, TransactionOf(t))
	}
	return l
}

// add records the outputs of tx and marks its inputs spent. The outputs of
// an unsigned transaction are not addressable yet.
func (l *ledger) add(key *Key, tx *wire.MsgTx) {
	for _, in := range tx.TxIn {
		l.spent[in.PreviousOutPoint] = true
	}
	if !IsSigned(tx) {
		return
	}

	hash := tx.TxHash()
	for i, out := range tx.TxOut {
		op := wire.OutPoint{Hash: hash, Index: uint32(i)}
		l.outputs[op] = out

		if path, ok := key.OwnsScript(out.PkScript); ok {
			l.owned = append(l.owned, Output{OutPoint: op, TxOut: out, Path: path})
		}
	}
}

// Unspent returns the owned outputs not spent by any transaction, largest first.
func (l *ledger) Unspent() []Output {
	var unspent []Output
	for _, o := range l.owned {
		if !l.spent[o.OutPoint] {
			unspent = append(unspent, o)
		}
	}

	slices.SortStableFunc(unspent, func(a, b Output) int {
		return cmp.Compare(b.TxOut.Value, a.TxOut.Value)
	})
	return unspent
}

// inputValue sums the previous outputs of tx, if all of them are known.
func (l *ledger) inputValue(tx *wire.MsgTx) (int64, bool) {
	var sum int64
	for _, in := range tx.TxIn {
		out, ok := l.outputs[in.PreviousOutPoint]
		if !ok {
			return 0, false
		}
		sum += out.Value
	}
	return sum, true
}

// selection is the outcome of coin selection.
type selection struct {
	inputs []Output
	change int64
	fee    FeeBasis
}

// selectCoins picks the largest outputs until they cover value plus the
// fee at feePerKB. Change below DustThreshold goes to the fee.
func selectCoins(unspent []Output, value int64, feePerKB uint64) (selection, error) {
	var (
		s     selection
		total int64
	)

	for _, o := range unspent {
		s.inputs = append(s.inputs, o)
		total += o.TxOut.Value

		withChange := NewFeeBasis(feePerKB, EstimateSize(len(s.inputs), 2))
		if change := total - value - int64(withChange.Fee()); change >= DustThreshold {
			s.change, s.fee = change, withChange
			return s, nil
		}

		single := NewFeeBasis(feePerKB, EstimateSize(len(s.inputs), 1))
		if total >= value+int64(single.Fee()) {
			s.fee = ActualFeeBasis(uint64(total-value), single.SizeInBytes)
			return s, nil
		}
	}

	return selection{}, ErrInsufficientFunds
}

func changeScheme(m *walletkit.WalletManager) walletkit.AddressScheme {
	if m.AddressScheme() == walletkit.AddressSchemeBTCLegacy {
		return walletkit.AddressSchemeBTCLegacy
	}
	return walletkit.AddressSchemeBTCSegwit
}

type wallet struct{ c *Chain }

// CreateTransfer builds an unsigned transaction paying amount to target
// from the wallet's unspent outputs, returning change to the first change
// key. Only the fee rate of estimatedFeeBasis is used; the transfer's fee
// basis reflects the selected inputs.
func (h *wallet) CreateTransfer(m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, estimatedFeeBasis *walletkit.FeeBasis, attributes []walletkit.TransferAttribute) (*walletkit.Transfer, error) {
	key := accountKey(m)

	v, ok := amount.Uint64()
	if !ok || v > btcutil.MaxSatoshi {
		return nil, walletkit.ErrAmountOverflow
	}
	value := int64(v)

	pkScript, err := txscript.PayToAddrScript(addressOf(target))
	if err != nil {
		return nil, walletkit.ErrInvalidAddress
	}

	_, toSelf := key.OwnsScript(pkScript)
	direction, err := walletkit.DeriveDirection(true, toSelf)
	if err != nil {
		return nil, err
	}

	rate := estimatedFeeBasis
	if rate == nil {
		if rate = w.DefaultFeeBasis(); rate == nil {
			return nil, walletkit.ErrFeeEstimateUnavailable
		}
		defer rate.Give()
	}

	s, err := selectCoins(newLedger(key, w).Unspent(), value, feeBasisOf(rate).FeePerKB)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	for _, in := range s.inputs {
		tx.AddTxIn(wire.NewTxIn(&in.OutPoint, nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(value, pkScript))

	if s.change > 0 {
		changeAddress, err := key.address(KeyPath{Branch: BranchChange}, changeScheme(m), h.c.params)
		if err != nil {
			return nil, err
		}

		changeScript, err := txscript.PayToAddrScript(changeAddress)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(s.change, changeScript))
	}

	sourceAddress, err := key.address(s.inputs[0].Path, changeScheme(m), h.c.params)
	if err != nil {
		return nil, err
	}
	source := h.c.NewAddress(sourceAddress)
	defer source.Give()

	fb := h.c.newFeeBasis(w.UnitForFee(), s.fee)
	defer fb.Give()

	return walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              walletkit.NetworkTypeBTC,
		Handler:           &h.c.transfer,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             walletkit.StateCreated(),
		Attributes:        attributes,
		Basis:             walletkit.TransactionBasis{Transaction: tx},
	}), nil
}

func (h *wallet) Equal(a, b *walletkit.Wallet) bool {
	return a == b
}
