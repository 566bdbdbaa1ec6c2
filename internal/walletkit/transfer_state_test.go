package walletkit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDeriveTransferState(t *testing.T) {
	included := TransferIncluded{BlockNumber: 7, Success: true}

	tests := []struct {
		status TransferStatus
		want   TransferStateType
	}{
		{TransferStatusQueued, TransferStateSubmitted},
		{TransferStatusPending, TransferStateSubmitted},
		{TransferStatusIncluded, TransferStateIncluded},
		{TransferStatusErrored, TransferStateErrored},
		{TransferStatusUnknown, TransferStateCreated},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			state := DeriveTransferState(tt.status, included)
			assert.Equal(t, tt.want, state.Type())
		})
	}

	t.Run("included carries the confirmation", func(t *testing.T) {
		inc, ok := DeriveTransferState(TransferStatusIncluded, included).Included()
		require.True(t, ok)
		assert.Equal(t, uint64(7), inc.BlockNumber)
	})
}

func TestTransferStatus_JSON(t *testing.T) {
	data, err := json.Marshal(TransferStatusPending)
	require.NoError(t, err)
	assert.JSONEq(t, `"pending"`, string(data))

	var s TransferStatus
	require.NoError(t, json.Unmarshal([]byte(`"included"`), &s))
	assert.Equal(t, TransferStatusIncluded, s)

	assert.Equal(t, TransferStatusUnknown, ParseTransferStatus("nonsense"))
}

func TestTransfer_setState(t *testing.T) {
	t.Run("moves forward", func(t *testing.T) {
		tr := newTestTransfer(testTransferSpec{amount: NewAmountFromUint64(testNativeUnit, 1), direction: DirectionSent})
		defer tr.Give()

		prev, changed := tr.setState(StateSigned())
		assert.True(t, changed)
		assert.Equal(t, TransferStateCreated, prev.Type())
		assert.Equal(t, TransferStateSigned, tr.State().Type())
	})

	t.Run("ignores updates behind the current state", func(t *testing.T) {
		tr := newTestTransfer(testTransferSpec{amount: NewAmountFromUint64(testNativeUnit, 1), direction: DirectionSent, state: StateSubmitted()})
		defer tr.Give()

		_, changed := tr.setState(StateSigned())
		assert.False(t, changed)
		assert.Equal(t, TransferStateSubmitted, tr.State().Type())
	})

	t.Run("terminal states are final", func(t *testing.T) {
		tr := newTestTransfer(testTransferSpec{amount: NewAmountFromUint64(testNativeUnit, 1), direction: DirectionSent})
		defer tr.Give()

		_, changed := tr.setState(StateErrored(SubmitError{Type: SubmitErrorClient}))
		require.True(t, changed)

		_, changed = tr.setState(StateIncluded(TransferIncluded{BlockNumber: 1, Success: true}))
		assert.False(t, changed)
		assert.Equal(t, TransferStateErrored, tr.State().Type())
	})

	t.Run("confirmed fee basis is preferred and retained", func(t *testing.T) {
		tr := newTestTransfer(testTransferSpec{amount: NewAmountFromUint64(testNativeUnit, 1), direction: DirectionSent, fee: 21000})
		defer tr.Give()
		assert.True(t, tr.ConfirmedFeeBasis().IsNone())

		confirmed := newTestFeeBasis(testNativeUnit, 18000)
		_, changed := tr.setState(StateIncluded(TransferIncluded{BlockNumber: 100, Timestamp: time.Unix(1, 0), FeeBasis: confirmed, Success: true}))
		require.True(t, changed)
		assert.Equal(t, int64(2), confirmed.ref.Count())
		confirmed.Give()

		assert.True(t, tr.ConfirmedFeeBasis().IsSome())
		assert.Same(t, confirmed, tr.FeeBasis())
		assert.Equal(t, "18000", tr.Fee().String())
		assert.Equal(t, "21000", tr.EstimatedFeeBasis().Fee().String())
	})
}

func TestTransfer_setState_Monotonic(t *testing.T) {
	genState := rapid.Custom(func(t *rapid.T) TransferState {
		switch rapid.IntRange(0, 4).Draw(t, "type") {
		case 0:
			return StateCreated()
		case 1:
			return StateSigned()
		case 2:
			return StateSubmitted()
		case 3:
			return StateIncluded(TransferIncluded{
				BlockNumber: rapid.Uint64Range(1, 10).Draw(t, "block"),
				Success:     rapid.Bool().Draw(t, "success"),
			})
		}
		return StateErrored(SubmitError{Type: SubmitErrorClient})
	})

	rapid.Check(t, func(t *rapid.T) {
		tr := newTestTransfer(testTransferSpec{amount: NewAmountFromUint64(testNativeUnit, 1), direction: DirectionReceived})
		defer tr.Give()

		for _, next := range rapid.SliceOf(genState).Draw(t, "updates") {
			before := tr.State()
			prev, changed := tr.setState(next)
			after := tr.State()

			if !prev.Equal(before) {
				t.Fatalf("reported previous state %s, stored was %s", prev, before)
			}
			if after.Type().rank() < before.Type().rank() {
				t.Fatalf("state regressed from %s to %s", before, after)
			}
			if before.Type().IsTerminal() && after.Type() != before.Type() {
				t.Fatalf("terminal state %s replaced by %s", before, after)
			}
			if changed != !after.Equal(before) {
				t.Fatalf("changed=%v for %s -> %s", changed, before, after)
			}
		}
	})
}
