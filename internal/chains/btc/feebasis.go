package btc

import (
	"github.com/gabapcia/walletkit/internal/walletkit"
)

// Size model of a transaction: fixed overhead plus a typical signed P2PKH
// input and output.
const (
	txOverheadSize = 10
	txInputSize    = 148
	txOutputSize   = 34
)

// DustThreshold is the smallest change output worth creating, in satoshis.
const DustThreshold = 546

// EstimateSize returns the expected size in bytes of a signed transaction.
func EstimateSize(inputs, outputs int) uint64 {
	return uint64(txOverheadSize + txInputSize*inputs + txOutputSize*outputs)
}

// FeeBasis prices a transaction by size.
type FeeBasis struct {
	FeePerKB    uint64
	SizeInBytes uint64

	fee uint64
}

// NewFeeBasis returns the fee basis of a transaction of size bytes at
// feePerKB satoshis per 1000 bytes.
func NewFeeBasis(feePerKB, size uint64) FeeBasis {
	return FeeBasis{FeePerKB: feePerKB, SizeInBytes: size, fee: feePerKB * size / 1000}
}

// ActualFeeBasis returns the fee basis of a transaction that paid fee.
func ActualFeeBasis(fee, size uint64) FeeBasis {
	fb := FeeBasis{SizeInBytes: size, fee: fee}
	if size > 0 {
		fb.FeePerKB = fee * 1000 / size
	}
	return fb
}

func (f FeeBasis) Fee() uint64 { return f.fee }

func (c *Chain) newFeeBasis(unit walletkit.Unit, fb FeeBasis) *walletkit.FeeBasis {
	return walletkit.NewFeeBasis(walletkit.NetworkTypeBTC, &c.feeBasis, unit, fb)
}

func feeBasisOf(fb *walletkit.FeeBasis) FeeBasis {
	return fb.Native().(FeeBasis)
}

type feeBasis struct{ c *Chain }

func (h *feeBasis) Fee(fb *walletkit.FeeBasis) walletkit.Amount {
	return walletkit.NewAmountFromUint64(fb.Unit(), feeBasisOf(fb).fee)
}

// CostFactor is the size in kilobytes.
func (h *feeBasis) CostFactor(fb *walletkit.FeeBasis) float64 {
	return float64(feeBasisOf(fb).SizeInBytes) / 1000
}

func (h *feeBasis) PricePerCostFactor(fb *walletkit.FeeBasis) walletkit.Amount {
	return walletkit.NewAmountFromUint64(fb.Unit(), feeBasisOf(fb).FeePerKB)
}

func (h *feeBasis) Equal(a, b *walletkit.FeeBasis) bool {
	return feeBasisOf(a) == feeBasisOf(b)
}
