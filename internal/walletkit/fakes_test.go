package walletkit

import (
	"github.com/gabapcia/walletkit/internal/pkg/logger"
)

func init() {
	_ = logger.Init("error")
}

var (
	testNative = Currency{UIDS: "test:native", Code: "nat", Type: CurrencyTypeNative}
	testToken  = Currency{UIDS: "test:token", Code: "tok", Type: CurrencyTypeERC20, Issuer: "0x70"}

	testNativeUnit = Unit{Currency: testNative, UIDS: "test:native:base", Name: "nat base"}
	testTokenUnit  = Unit{Currency: testToken, UIDS: "test:token:base", Name: "tok base"}
)

// testFeeBasisHandler treats the native value as the fee in base units.
type testFeeBasisHandler struct{}

func (testFeeBasisHandler) Fee(fb *FeeBasis) Amount {
	return NewAmountFromUint64(fb.Unit(), fb.Native().(uint64))
}

func (testFeeBasisHandler) CostFactor(*FeeBasis) float64 { return 1 }

func (h testFeeBasisHandler) PricePerCostFactor(fb *FeeBasis) Amount { return h.Fee(fb) }

func (testFeeBasisHandler) Equal(a, b *FeeBasis) bool {
	return a.Native().(uint64) == b.Native().(uint64)
}

// testTransferHandler uses the basis payload string as the hash.
type testTransferHandler struct{}

func (testTransferHandler) Hash(t *Transfer) (Hash, bool) {
	s := t.Basis().(TransactionBasis).Transaction.(string)
	return NewHash(t.Type(), s), s != ""
}

func (h testTransferHandler) Serialize(t *Transfer, _ *Network, requireSignature bool) ([]byte, error) {
	hash, ok := h.Hash(t)
	if requireSignature && !ok {
		return nil, ErrSerializationWithoutSignature
	}
	return []byte(hash.String()), nil
}

func (testTransferHandler) Equal(a, b *Transfer) bool {
	return a.UIDS() == b.UIDS()
}

func newTestFeeBasis(unit Unit, fee uint64) *FeeBasis {
	return NewFeeBasis(NetworkTypeETH, testFeeBasisHandler{}, unit, fee)
}

type testTransferSpec struct {
	direction Direction
	amount    Amount
	fee       uint64
	feeUnit   Unit
	state     TransferState
	hash      string
}

func newTestTransfer(spec testTransferSpec) *Transfer {
	if spec.feeUnit == (Unit{}) {
		spec.feeUnit = testNativeUnit
	}

	fb := newTestFeeBasis(spec.feeUnit, spec.fee)
	defer fb.Give()

	return NewTransfer(TransferConfig{
		Type:              NetworkTypeETH,
		Handler:           testTransferHandler{},
		Amount:            spec.amount,
		Direction:         spec.direction,
		EstimatedFeeBasis: fb,
		State:             spec.state,
		Basis:             TransactionBasis{Transaction: spec.hash},
	})
}
