package walletkit

import "github.com/gabapcia/walletkit/internal/pkg/refcount"

// FeeBasis is a chain-specific description of a transaction's cost (gas
// limit and price, fee per kilobyte and size, ...) convertible into an
// amount of the fee unit.
type FeeBasis struct {
	ref     refcount.Counter
	typ     NetworkType
	handler FeeBasisHandler
	unit    Unit
	native  any
}

// NewFeeBasis wraps a chain-native fee basis value priced in unit.
func NewFeeBasis(typ NetworkType, handler FeeBasisHandler, unit Unit, native any) *FeeBasis {
	fb := &FeeBasis{
		typ:     typ,
		handler: handler,
		unit:    unit,
		native:  native,
	}
	fb.ref.Init("fee basis", nil)
	return fb
}

func (fb *FeeBasis) Take() *FeeBasis { fb.ref.Retain(); return fb }
func (fb *FeeBasis) Give()           { fb.ref.Release() }

func (fb *FeeBasis) Type() NetworkType { return fb.typ }
func (fb *FeeBasis) Unit() Unit        { return fb.unit }
func (fb *FeeBasis) Native() any       { return fb.native }

// Fee returns the total cost.
func (fb *FeeBasis) Fee() Amount {
	return fb.handler.Fee(fb)
}

// CostFactor returns the number of cost units (gas, kilobytes, ...).
func (fb *FeeBasis) CostFactor() float64 {
	return fb.handler.CostFactor(fb)
}

// PricePerCostFactor returns the price of one cost unit.
func (fb *FeeBasis) PricePerCostFactor() Amount {
	return fb.handler.PricePerCostFactor(fb)
}

func (fb *FeeBasis) Equal(o *FeeBasis) bool {
	switch {
	case fb == o:
		return true
	case fb == nil, o == nil, fb.typ != o.typ:
		return false
	}
	return fb.handler.Equal(fb, o)
}
