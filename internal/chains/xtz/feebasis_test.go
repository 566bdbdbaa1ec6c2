package xtz_test

import (
	"testing"

	"github.com/gabapcia/walletkit/internal/chains/xtz"

	"github.com/stretchr/testify/assert"
)

func TestEstimatedFeeBasis(t *testing.T) {
	t.Run("pads consumed gas and storage", func(t *testing.T) {
		assert.Equal(t, int64(1100), xtz.Pad(1000))
		assert.Equal(t, int64(220), xtz.Pad(200))

		fb := xtz.EstimatedFeeBasis(1000, 0.25, 1000, 200, 8)

		assert.Equal(t, int64(1100), fb.GasLimit)
		assert.Equal(t, int64(300), fb.StorageLimit)
		assert.Equal(t, uint64(483), fb.Fee())
		assert.Equal(t, uint64(1000), fb.PricePerCostFactor())
	})

	t.Run("storage above the minimum is kept", func(t *testing.T) {
		fb := xtz.EstimatedFeeBasis(1000, 0.25, 1000, 500, 8)
		assert.Equal(t, int64(550), fb.StorageLimit)
	})

	t.Run("price below the minimum per kilobyte", func(t *testing.T) {
		low := xtz.EstimatedFeeBasis(10, 0.25, 1000, 200, 8)
		assert.Equal(t, uint64(483), low.Fee())
	})

	t.Run("equality", func(t *testing.T) {
		a := xtz.EstimatedFeeBasis(1000, 0.25, 1000, 200, 8)

		assert.True(t, a.Equal(xtz.EstimatedFeeBasis(1000, 0.25, 1000, 200, 8)))
		assert.False(t, a.Equal(xtz.EstimatedFeeBasis(1000, 0.25, 1000, 200, 9)))
		assert.False(t, a.Equal(xtz.ActualFeeBasis(483)))
		assert.True(t, xtz.ActualFeeBasis(483).Equal(xtz.ActualFeeBasis(483)))
		assert.True(t, xtz.InitialFeeBasis().Equal(xtz.InitialFeeBasis()))
	})
}

func TestInitialFeeBasis(t *testing.T) {
	fb := xtz.InitialFeeBasis()

	assert.Equal(t, uint64(xtz.DefaultFee), fb.Fee())
	assert.Equal(t, int64(xtz.DefaultGasLimit), fb.GasLimit)
	assert.Equal(t, int64(xtz.DefaultStorageLimit), fb.StorageLimit)
	assert.Equal(t, float64(1), fb.CostFactor())
}
