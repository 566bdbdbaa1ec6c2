package hdkey

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestParsePath(t *testing.T) {
	t.Run("hardened and plain indexes", func(t *testing.T) {
		indexes, err := ParsePath("m/44'/60'/0'/0/7")

		require.NoError(t, err)
		assert.Equal(t, []uint32{
			44 + hdkeychain.HardenedKeyStart,
			60 + hdkeychain.HardenedKeyStart,
			hdkeychain.HardenedKeyStart,
			0,
			7,
		}, indexes)
	})

	t.Run("master only", func(t *testing.T) {
		indexes, err := ParsePath("m")

		require.NoError(t, err)
		assert.Empty(t, indexes)
	})

	for _, path := range []string{"", "44'/0'", "m/x", "m/-1", "m/2147483648", "m//0"} {
		t.Run("rejects "+path, func(t *testing.T) {
			_, err := ParsePath(path)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestDerive(t *testing.T) {
	seed := bip39.NewSeed("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")

	t.Run("path and step-wise derivation agree", func(t *testing.T) {
		full, err := Derive(seed, &chaincfg.MainNetParams, "m/44'/0'/0'/0/0")
		require.NoError(t, err)

		account, err := Derive(seed, &chaincfg.MainNetParams, "m/44'/0'/0'")
		require.NoError(t, err)

		child, err := DeriveChildren(account, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, full.String(), child.String())
	})

	t.Run("known bip44 bitcoin address", func(t *testing.T) {
		key, err := Derive(seed, &chaincfg.MainNetParams, "m/44'/0'/0'/0/0")
		require.NoError(t, err)

		addr, err := key.Address(&chaincfg.MainNetParams)
		require.NoError(t, err)
		assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", addr.EncodeAddress())
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := Derive(seed, &chaincfg.MainNetParams, "44'/0'")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}
