package eth

import (
	"context"
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type manager struct{ c *Chain }

func (h *manager) AddressSchemes() []walletkit.AddressScheme {
	return []walletkit.AddressScheme{walletkit.AddressSchemeETHDefault}
}

func (h *manager) CreateEngine(m *walletkit.WalletManager) (walletkit.Engine, error) {
	return walletkit.NewClientEngine(m, walletkit.RequestTransfers), nil
}

// CreateWallet creates the wallet of ether or of an ERC-20 token, whose
// issuer is the contract address. Fees are always paid in ether.
func (h *manager) CreateWallet(m *walletkit.WalletManager, currency walletkit.Currency) (*walletkit.Wallet, error) {
	n := m.Network()

	unit, ok := n.BaseUnit(currency)
	if !ok {
		return nil, walletkit.ErrUnsupportedCurrency
	}
	feeUnit, _ := n.BaseUnit(n.Currency())

	st := &walletState{gasLimit: DefaultGasLimit}
	if !currency.IsNative() {
		if !common.IsHexAddress(currency.Issuer) {
			return nil, fmt.Errorf("%w: %s has no contract address", walletkit.ErrUnsupportedCurrency, currency.Code)
		}
		contract := common.HexToAddress(currency.Issuer)
		st.token, st.gasLimit = &contract, DefaultTokenGasLimit
	}

	fb := h.c.NewFeeBasis(feeUnit, st.gasLimit, n.MinimumFee().PricePerCostFactor.Value())
	defer fb.Give()

	return walletkit.NewWallet(walletkit.WalletConfig{
		Type:            walletkit.NetworkTypeETH,
		Handler:         &h.c.wallet,
		Manager:         m,
		Unit:            unit,
		UnitForFee:      feeUnit,
		DefaultFeeBasis: fb,
		Native:          st,
	}), nil
}

// Sign assigns the next nonce and signs the originating transaction for
// the chain id.
func (h *manager) Sign(m *walletkit.WalletManager, _ *walletkit.Wallet, t *walletkit.Transfer, seed []byte) error {
	o, ok := originatingOf(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTransaction, t.UIDS())
	}

	priv, err := signingKey(m, seed)
	if err != nil {
		return err
	}

	unsigned := o.Tx
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nextNonce(m),
		To:       unsigned.To(),
		Value:    unsigned.Value(),
		Gas:      unsigned.Gas(),
		GasPrice: unsigned.GasPrice(),
		Data:     unsigned.Data(),
	})

	signed, err := types.SignTx(tx, types.NewEIP155Signer(h.c.chainID), priv)
	if err != nil {
		return err
	}

	t.SetBasis(withSigned(t.Basis(), signed))
	return nil
}

// nextNonce is one past the highest nonce the account used across the
// manager's wallets. Errored transfers never consumed theirs.
func nextNonce(m *walletkit.WalletManager) uint64 {
	var next uint64
	for _, w := range m.Wallets() {
		for _, t := range w.Transfers() {
			if t.Direction() != walletkit.DirectionReceived && t.State().Type() != walletkit.TransferStateErrored {
				nonceOf(t).WhenSome(func(n uint64) { next = max(next, n+1) })
			}
			t.Give()
		}
		w.Give()
	}
	return next
}

// EstimateFeeBasis asks the client for the gas the transaction needs and
// prices it at fee.
func (h *manager) EstimateFeeBasis(ctx context.Context, m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, fee walletkit.NetworkFee, attributes []walletkit.TransferAttribute) (*walletkit.FeeBasis, error) {
	t, err := h.c.wallet.CreateTransfer(m, w, target, amount, nil, attributes)
	if err != nil {
		return nil, err
	}
	defer t.Give()

	serialization, err := t.Serialize(m.Network(), false)
	if err != nil {
		return nil, err
	}

	o, _ := originatingOf(t)
	estimate, err := m.Client().EstimateTransactionFee(ctx, m.Network(), walletkit.FeeEstimateRequest{
		Serialization: serialization,
		Source:        accountKey(m).Address.Hex(),
		Target:        o.Tx.To().Hex(),
		Amount:        o.Tx.Value().String(),
	})
	if err != nil {
		return nil, err
	}
	if estimate.CostUnits == 0 {
		return nil, fmt.Errorf("%w: no gas estimate", walletkit.ErrFeeEstimateUnavailable)
	}

	return h.c.NewFeeBasis(w.UnitForFee(), estimate.CostUnits, fee.PricePerCostFactor.Value()), nil
}

func (h *manager) RecoverTransaction(context.Context, *walletkit.WalletManager, walletkit.TransactionBundle) (walletkit.Recovered, error) {
	return walletkit.Recovered{}, walletkit.ErrNotImplemented
}
