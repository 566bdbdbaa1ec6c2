package eth

import (
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/holiman/uint256"
)

// FeeBasis is an amount of gas at a price in wei. Estimated fee bases carry
// the gas limit, confirmed ones the gas used.
type FeeBasis struct {
	Gas      uint64
	GasPrice uint256.Int
}

// NewFeeBasis returns a fee basis of gas at price, priced in unit.
func (c *Chain) NewFeeBasis(unit walletkit.Unit, gas uint64, price *uint256.Int) *walletkit.FeeBasis {
	native := FeeBasis{Gas: gas}
	if price != nil {
		native.GasPrice.Set(price)
	}
	return walletkit.NewFeeBasis(walletkit.NetworkTypeETH, &c.feeBasis, unit, native)
}

func feeBasisOf(fb *walletkit.FeeBasis) FeeBasis {
	return fb.Native().(FeeBasis)
}

type feeBasis struct{ c *Chain }

func (h *feeBasis) Fee(fb *walletkit.FeeBasis) walletkit.Amount {
	n := feeBasisOf(fb)
	fee, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(n.Gas), &n.GasPrice)
	if overflow {
		fee.SetAllOne()
	}
	return walletkit.NewAmount(fb.Unit(), fee)
}

func (h *feeBasis) CostFactor(fb *walletkit.FeeBasis) float64 {
	return float64(feeBasisOf(fb).Gas)
}

func (h *feeBasis) PricePerCostFactor(fb *walletkit.FeeBasis) walletkit.Amount {
	n := feeBasisOf(fb)
	return walletkit.NewAmount(fb.Unit(), &n.GasPrice)
}

func (h *feeBasis) Equal(a, b *walletkit.FeeBasis) bool {
	return feeBasisOf(a) == feeBasisOf(b)
}
