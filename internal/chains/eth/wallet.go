package eth

import (
	"fmt"
	"math/big"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// walletState is the per-wallet state: the token contract, nil for ether.
type walletState struct {
	token    *common.Address
	gasLimit uint64
}

type wallet struct{ c *Chain }

// CreateTransfer builds the unsigned transaction sending amount to target:
// a plain value transfer for ether, a transfer(to, value) call of the token
// contract otherwise. The nonce is assigned when signing.
func (h *wallet) CreateTransfer(m *walletkit.WalletManager, w *walletkit.Wallet, target *walletkit.Address, amount walletkit.Amount, estimatedFeeBasis *walletkit.FeeBasis, attributes []walletkit.TransferAttribute) (*walletkit.Transfer, error) {
	st := w.Native().(*walletState)
	key := accountKey(m)
	to := addressOf(target)

	direction, err := walletkit.DeriveDirection(true, to == key.Address)
	if err != nil {
		return nil, err
	}

	fb := estimatedFeeBasis
	if fb == nil {
		if fb = w.DefaultFeeBasis(); fb == nil {
			return nil, walletkit.ErrFeeEstimateUnavailable
		}
		defer fb.Give()
	}
	gas := feeBasisOf(fb)

	var basis walletkit.Basis
	if st.token == nil {
		tx := types.NewTx(&types.LegacyTx{
			To:       &to,
			Value:    amount.Value().ToBig(),
			Gas:      gas.Gas,
			GasPrice: gas.GasPrice.ToBig(),
		})
		basis = walletkit.TransactionBasis{Transaction: &Transaction{Originating: &Originating{Tx: tx}}}
	} else {
		data, err := EncodeTokenTransfer(to, amount.Value().ToBig())
		if err != nil {
			return nil, fmt.Errorf("encode token transfer: %w", err)
		}

		tx := types.NewTx(&types.LegacyTx{
			To:       st.token,
			Value:    new(big.Int),
			Gas:      gas.Gas,
			GasPrice: gas.GasPrice.ToBig(),
			Data:     data,
		})
		basis = walletkit.LogBasis{Log: &Log{Contract: *st.token, Originating: &Originating{Tx: tx}}}
	}

	source := h.c.NewAddress(key.Address)
	defer source.Give()

	return walletkit.NewTransfer(walletkit.TransferConfig{
		Type:              walletkit.NetworkTypeETH,
		Handler:           &h.c.transfer,
		Source:            source,
		Target:            target,
		Amount:            amount,
		Direction:         direction,
		EstimatedFeeBasis: fb,
		State:             walletkit.StateCreated(),
		Attributes:        attributes,
		Basis:             basis,
	}), nil
}

// Equal compares by identity: a manager holds one wallet per currency.
func (h *wallet) Equal(a, b *walletkit.Wallet) bool {
	return a == b
}
