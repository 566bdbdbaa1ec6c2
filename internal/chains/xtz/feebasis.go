package xtz

import (
	"github.com/gabapcia/walletkit/internal/chains/gen"
)

// FeeKind tells how a FeeBasis was obtained.
type FeeKind uint8

const (
	FeeInitial FeeKind = iota
	FeeEstimate
	FeeActual
)

// Limits and fee of a transfer nobody estimated yet.
const (
	DefaultGasLimit     = 1040000
	DefaultStorageLimit = 60000
	DefaultFee          = 1420
)

const (
	minimalFee             = 100
	minimalMutezPerKByte   = 1000
	minimalStorageLimit    = 300
	nanotezPerGasUnit      = 0.1
	feeSafetyMargin        = 1.05
	limitSafetyMarginRatio = 110
)

// FeeBasis is the fee of a Tezos operation. An estimate derives its fee
// from the limits, the operation size and the price per kilobyte; the
// other kinds carry the fee as is.
type FeeBasis struct {
	Kind          FeeKind
	GasLimit      int64
	StorageLimit  int64
	Counter       int64
	MutezPerKByte int64
	SizeInKBytes  float64

	fee int64
}

// InitialFeeBasis is the fee basis of a wallet before any estimate.
func InitialFeeBasis() FeeBasis {
	return FeeBasis{
		Kind:         FeeInitial,
		GasLimit:     DefaultGasLimit,
		StorageLimit: DefaultStorageLimit,
		fee:          DefaultFee,
	}
}

// ActualFeeBasis is the fee basis of an operation included on chain.
func ActualFeeBasis(fee int64) FeeBasis {
	return FeeBasis{Kind: FeeActual, fee: fee}
}

// EstimatedFeeBasis builds the fee basis of a simulated operation. Gas and
// storage are the amounts the node consumed; both get padded.
func EstimatedFeeBasis(mutezPerKByte int64, sizeInKBytes float64, gasUsed, storageUsed, counter int64) FeeBasis {
	return FeeBasis{
		Kind:          FeeEstimate,
		GasLimit:      Pad(gasUsed),
		StorageLimit:  max(Pad(storageUsed), minimalStorageLimit),
		Counter:       counter,
		MutezPerKByte: mutezPerKByte,
		SizeInKBytes:  sizeInKBytes,
	}
}

// Pad adds the safety margin applied to consumed gas and storage.
func Pad(v int64) int64 {
	return limitSafetyMarginRatio * v / 100
}

func (f FeeBasis) fee64() int64 {
	if f.Kind != FeeEstimate {
		return f.fee
	}

	perKByte := max(minimalMutezPerKByte, f.MutezPerKByte)
	fee := minimalFee + int64(nanotezPerGasUnit*float64(f.GasLimit)) + int64(float64(perKByte)*f.SizeInKBytes)
	return int64(float64(fee) * feeSafetyMargin)
}

func (f FeeBasis) Fee() uint64 {
	return uint64(max(f.fee64(), 0))
}

func (f FeeBasis) CostFactor() float64 {
	if f.Kind == FeeEstimate && f.MutezPerKByte > 0 {
		return float64(f.fee64()) / float64(f.MutezPerKByte)
	}
	return 1
}

func (f FeeBasis) PricePerCostFactor() uint64 {
	if f.Kind == FeeEstimate && f.MutezPerKByte > 0 {
		return uint64(f.MutezPerKByte)
	}
	return f.Fee()
}

func (f FeeBasis) Equal(o gen.FeeBasis) bool {
	b, ok := o.(FeeBasis)
	if !ok || f.Kind != b.Kind {
		return false
	}

	switch f.Kind {
	case FeeEstimate:
		return f.MutezPerKByte == b.MutezPerKByte &&
			f.SizeInKBytes == b.SizeInKBytes &&
			f.GasLimit == b.GasLimit &&
			f.StorageLimit == b.StorageLimit &&
			f.Counter == b.Counter
	case FeeInitial:
		return f.fee == b.fee && f.GasLimit == b.GasLimit && f.StorageLimit == b.StorageLimit
	}
	return f.fee == b.fee
}
