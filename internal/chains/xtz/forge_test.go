package xtz

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestAppendZarith(t *testing.T) {
	for v, want := range map[int64]string{
		0:       "00",
		127:     "7f",
		128:     "8001",
		1420:    "8c0b",
		1000000: "c0843d",
	} {
		assert.Equal(t, want, hex.EncodeToString(appendZarith(nil, v)), v)
	}
}

func TestOperation_Forge(t *testing.T) {
	source, err := ParseAddress("tz1VQA4RP4fLjEEMW2FR4pE9kAg5abb5h5GL")
	require.NoError(t, err)

	destination, err := ParseAddress("tz1Ke2h7sDdakHJQh8WX4Z372du1KChsksyU")
	require.NoError(t, err)

	op := Operation{
		Source:       source,
		Fee:          1420,
		Counter:      8,
		GasLimit:     10600,
		StorageLimit: 300,
		Amount:       1000000,
		Destination:  destination,
	}
	for i := range op.Branch {
		op.Branch[i] = byte(i)
	}

	t.Run("transaction", func(t *testing.T) {
		assert.Equal(t,
			"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"+
				"6c006b1195925ca88aafe7b7e6a0adf20b97ec20edb78c0b08e852ac02c0843d"+
				"0000000000000000000000000000000000000000000000",
			hex.EncodeToString(op.Forge()))
	})

	t.Run("reveal first", func(t *testing.T) {
		pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
		withReveal := op
		withReveal.Reveal = &Reveal{Fee: revealFee, Counter: 7, GasLimit: revealGasLimit, PublicKey: pub}

		forged := withReveal.Forge()
		assert.Equal(t, tagReveal, forged[32])
		assert.Equal(t, "8c0b07e852", hex.EncodeToString(forged[54:59]))
		assert.Equal(t, op.Forge()[32:], forged[len(forged)-len(op.Forge())+32:])
	})

	t.Run("contract destination", func(t *testing.T) {
		contract, err := ParseAddress("KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT")
		require.NoError(t, err)

		toContract := op
		toContract.Destination = contract

		forged := toContract.Forge()
		destination := forged[len(forged)-23 : len(forged)-1]
		assert.Equal(t, byte(1), destination[0])
		assert.Equal(t, byte(0), destination[21])
	})
}

func TestSignForged(t *testing.T) {
	key := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	forged := []byte("forged operation")

	signed, hash := SignForged(forged, key)
	require.Len(t, signed, len(forged)+ed25519.SignatureSize)

	digest := blake2b.Sum256(append([]byte{watermarkGeneric}, forged...))
	assert.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), digest[:], signed[len(forged):]))
	assert.Equal(t, OperationHash(signed), hash)
	assert.Equal(t, "o", hash[:1])
}
