package eth_test

import (
	"testing"

	"github.com/gabapcia/walletkit/internal/chains/eth"
	"github.com/gabapcia/walletkit/internal/walletkit"
	"github.com/gabapcia/walletkit/internal/walletkit/mocks"
	"github.com/gabapcia/walletkit/internal/walletkit/walletkittest"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector(t *testing.T) {
	setup := func(t *testing.T) *walletkit.WalletConnector {
		f := newFixture(t)
		m := f.newManager(t, mocks.NewClient(t))

		c := walletkit.NewWalletConnector(m)
		t.Cleanup(c.Close)
		return c
	}

	t.Run("digest with and without the personal message prefix", func(t *testing.T) {
		c := setup(t)
		msg := []byte("hello")

		prefixed, err := c.GetDigest(msg, true)
		require.NoError(t, err)
		assert.Equal(t, accounts.TextHash(msg), prefixed)

		plain, err := c.GetDigest(msg, false)
		require.NoError(t, err)
		assert.Equal(t, crypto.Keccak256(msg), plain)
	})

	t.Run("signatures recover the account address", func(t *testing.T) {
		c := setup(t)

		digest, err := c.GetDigest([]byte("hello"), true)
		require.NoError(t, err)

		sig, err := c.Sign(digest, walletkittest.PaperKey)
		require.NoError(t, err)
		require.Len(t, sig, crypto.SignatureLength)

		pub, err := crypto.SigToPub(digest, sig)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(accountAddress), crypto.PubkeyToAddress(*pub))
	})

	t.Run("short digests are rejected", func(t *testing.T) {
		c := setup(t)

		_, err := c.Sign([]byte{1, 2, 3}, walletkittest.PaperKey)
		assert.Error(t, err)
	})

	t.Run("transactions from arguments are unsigned", func(t *testing.T) {
		c := setup(t)

		serialization, signed, err := c.CreateTransactionFromArguments(map[string]string{
			"to":       bob,
			"value":    "0x10",
			"gasPrice": "7",
			"nonce":    "3",
			"data":     "0xabcd",
		})
		require.NoError(t, err)
		assert.False(t, signed)

		var tx types.Transaction
		require.NoError(t, tx.UnmarshalBinary(serialization))
		assert.Equal(t, common.HexToAddress(bob), *tx.To())
		assert.Equal(t, int64(16), tx.Value().Int64())
		assert.Equal(t, int64(7), tx.GasPrice().Int64())
		assert.Equal(t, uint64(3), tx.Nonce())
		assert.Equal(t, uint64(eth.DefaultGasLimit), tx.Gas())
		assert.Equal(t, []byte{0xab, 0xcd}, tx.Data())

		_, signed, err = c.CreateTransactionFromSerialization(serialization)
		require.NoError(t, err)
		assert.False(t, signed)
	})

	t.Run("malformed arguments", func(t *testing.T) {
		c := setup(t)

		for _, args := range []map[string]string{
			{"to": "0x12"},
			{"value": "ten"},
			{"gas": "-1"},
			{"data": "abcd"},
		} {
			_, _, err := c.CreateTransactionFromArguments(args)
			assert.Error(t, err, args)
		}
	})

	t.Run("signed serializations are detected", func(t *testing.T) {
		c := setup(t)

		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		to := common.HexToAddress(bob)
		tx, err := types.SignNewTx(key, types.NewEIP155Signer(eth.New(1).ChainID()), &types.LegacyTx{To: &to, Gas: eth.DefaultGasLimit})
		require.NoError(t, err)

		data, err := tx.MarshalBinary()
		require.NoError(t, err)

		serialization, signed, err := c.CreateTransactionFromSerialization(data)
		require.NoError(t, err)
		assert.True(t, signed)
		assert.Equal(t, data, serialization)
	})
}
