package walletkit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestWallet(unit Unit) *Wallet {
	fb := newTestFeeBasis(testNativeUnit, 1)
	defer fb.Give()

	return NewWallet(WalletConfig{
		Type:            NetworkTypeETH,
		Unit:            unit,
		UnitForFee:      testNativeUnit,
		DefaultFeeBasis: fb,
	})
}

func included(success bool) TransferState {
	return StateIncluded(TransferIncluded{BlockNumber: 1, Success: success})
}

func TestComputeBalance(t *testing.T) {
	amount := func(v uint64) Amount { return NewAmountFromUint64(testNativeUnit, v) }

	tests := []struct {
		name      string
		transfers []testTransferSpec
		want      string
	}{
		{
			name:      "empty",
			transfers: nil,
			want:      "0",
		},
		{
			name: "received minus sent minus fee",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(1000), fee: 5, state: included(true), hash: "a"},
				{direction: DirectionSent, amount: amount(300), fee: 10, state: included(true), hash: "b"},
			},
			want: "690",
		},
		{
			name: "recovered only costs the fee",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(100), state: included(true), hash: "a"},
				{direction: DirectionRecovered, amount: amount(50), fee: 7, state: included(true), hash: "b"},
			},
			want: "93",
		},
		{
			name: "errored transfers are ignored",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(100), state: included(true), hash: "a"},
				{direction: DirectionSent, amount: amount(50), fee: 7, state: StateErrored(SubmitError{Type: SubmitErrorClient}), hash: "b"},
			},
			want: "100",
		},
		{
			name: "failed inclusion only costs the fee",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(100), state: included(true), hash: "a"},
				{direction: DirectionSent, amount: amount(50), fee: 7, state: included(false), hash: "b"},
			},
			want: "93",
		},
		{
			name: "pending sends count",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(100), state: included(true), hash: "a"},
				{direction: DirectionSent, amount: amount(50), fee: 7, state: StateSubmitted(), hash: "b"},
			},
			want: "43",
		},
		{
			name: "underflow clamps to zero",
			transfers: []testTransferSpec{
				{direction: DirectionSent, amount: amount(50), fee: 7, state: included(true), hash: "b"},
			},
			want: "0",
		},
		{
			name: "token transfers do not move the native balance except for fees",
			transfers: []testTransferSpec{
				{direction: DirectionReceived, amount: amount(100), state: included(true), hash: "a"},
				{direction: DirectionSent, amount: NewAmountFromUint64(testTokenUnit, 40), fee: 9, state: included(true), hash: "b"},
			},
			want: "91",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts []*Transfer
			for _, spec := range tt.transfers {
				ts = append(ts, newTestTransfer(spec))
			}
			defer func() {
				for _, tr := range ts {
					tr.Give()
				}
			}()

			assert.Equal(t, tt.want, ComputeBalance(testNativeUnit, ts).String())
		})
	}

	t.Run("token wallet ignores native fees", func(t *testing.T) {
		tr := newTestTransfer(testTransferSpec{direction: DirectionSent, amount: NewAmountFromUint64(testTokenUnit, 40), fee: 9, state: included(true)})
		defer tr.Give()

		rx := newTestTransfer(testTransferSpec{direction: DirectionReceived, amount: NewAmountFromUint64(testTokenUnit, 100), state: included(true)})
		defer rx.Give()

		assert.Equal(t, "60", ComputeBalance(testTokenUnit, []*Transfer{rx, tr}).String())
	})
}

type balanceModel struct {
	direction Direction
	amount    uint64
	fee       uint64
	errored   bool
	failed    bool
}

func (m balanceModel) contribution() *big.Int {
	v := new(big.Int)
	if m.errored {
		return v
	}

	amount, fee := new(big.Int).SetUint64(m.amount), new(big.Int).SetUint64(m.fee)
	switch m.direction {
	case DirectionReceived:
		if !m.failed {
			v.Add(v, amount)
		}
	case DirectionSent:
		if !m.failed {
			v.Sub(v, amount)
		}
		v.Sub(v, fee)
	case DirectionRecovered:
		v.Sub(v, fee)
	}
	return v
}

func (m balanceModel) transfer(i int) *Transfer {
	state := included(!m.failed)
	if m.errored {
		state = StateErrored(SubmitError{Type: SubmitErrorClient})
	}

	return newTestTransfer(testTransferSpec{
		direction: m.direction,
		amount:    NewAmountFromUint64(testNativeUnit, m.amount),
		fee:       m.fee,
		state:     state,
		hash:      string(rune('a' + i%26)),
	})
}

var genBalanceModel = rapid.Custom(func(t *rapid.T) balanceModel {
	return balanceModel{
		direction: Direction(rapid.IntRange(0, 2).Draw(t, "direction")),
		amount:    rapid.Uint64Range(0, 1_000_000).Draw(t, "amount"),
		fee:       rapid.Uint64Range(0, 1_000).Draw(t, "fee"),
		errored:   rapid.Bool().Draw(t, "errored"),
		failed:    rapid.Bool().Draw(t, "failed"),
	}
})

func TestWallet_BalanceIsRecomputed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		models := rapid.SliceOfN(genBalanceModel, 1, 20).Draw(t, "transfers")

		w := newTestWallet(testNativeUnit)
		defer w.Give()

		sum := new(big.Int)
		for i, m := range models {
			tr := m.transfer(i)
			added, balance, _ := w.addTransfers([]*Transfer{tr})
			tr.Give()

			if len(added) != 1 {
				t.Fatalf("transfer %d not added", i)
			}

			sum.Add(sum, m.contribution())

			recomputed := ComputeBalance(testNativeUnit, w.transfers)
			if !balance.Equal(recomputed) || !w.Balance().Equal(recomputed) {
				t.Fatalf("balance %s drifted from recomputation %s", balance, recomputed)
			}

			want := new(big.Int).Set(sum)
			if want.Sign() < 0 {
				want.SetInt64(0)
			}
			if balance.BigInt().Cmp(want) != 0 {
				t.Fatalf("balance %s, want %s", balance, want)
			}
			if balance.IsNegative() {
				t.Fatalf("negative balance %s", balance)
			}
		}
	})
}

func TestWallet_addTransfers(t *testing.T) {
	w := newTestWallet(testNativeUnit)
	defer w.Give()

	tr := newTestTransfer(testTransferSpec{direction: DirectionReceived, amount: NewAmountFromUint64(testNativeUnit, 10), state: included(true), hash: "0x1"})
	defer tr.Give()

	added, balance, changed := w.addTransfers([]*Transfer{tr, tr})
	require.Len(t, added, 1)
	assert.True(t, changed)
	assert.Equal(t, "10", balance.String())
	assert.Equal(t, int64(2), tr.ref.Count())

	added, _, changed = w.addTransfers([]*Transfer{tr})
	assert.Empty(t, added)
	assert.False(t, changed)
	assert.Equal(t, 1, w.TransferCount())

	found := w.TransferByHash(NewHash(NetworkTypeETH, "0x1"))
	require.NotNil(t, found)
	assert.Same(t, tr, found)
	found.Give()

	assert.Nil(t, w.TransferByHash(Hash{}))
}

func TestWallet_updateTransferState(t *testing.T) {
	w := newTestWallet(testNativeUnit)
	defer w.Give()

	rx := newTestTransfer(testTransferSpec{direction: DirectionReceived, amount: NewAmountFromUint64(testNativeUnit, 100), state: included(true), hash: "rx"})
	defer rx.Give()
	tx := newTestTransfer(testTransferSpec{direction: DirectionSent, amount: NewAmountFromUint64(testNativeUnit, 30), fee: 5, state: StateSubmitted(), hash: "tx"})
	defer tx.Give()

	_, balance, _ := w.addTransfers([]*Transfer{rx, tx})
	assert.Equal(t, "65", balance.String())

	prev, changed, balance, balanceChanged := w.updateTransferState(tx, StateErrored(SubmitError{Type: SubmitErrorClient}))
	assert.Equal(t, TransferStateSubmitted, prev.Type())
	assert.True(t, changed)
	assert.True(t, balanceChanged)
	assert.Equal(t, "100", balance.String())

	_, changed, _, balanceChanged = w.updateTransferState(tx, StateSubmitted())
	assert.False(t, changed)
	assert.False(t, balanceChanged)
}
