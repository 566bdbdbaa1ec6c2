package walletservice_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
	"github.com/gabapcia/walletkit/internal/walletkit"
	"github.com/gabapcia/walletkit/internal/walletkit/mocks"
	"github.com/gabapcia/walletkit/internal/walletkit/walletkittest"
	"github.com/gabapcia/walletkit/internal/walletservice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const chainType = walletkit.NetworkTypeXRP

func init() {
	_ = logger.Init("error")
}

type fixture struct {
	*walletkittest.Fixture
	client  *mocks.Client
	service walletservice.Service
	network *walletkit.Network
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		Fixture: walletkittest.NewFixture(chainType),
		client:  mocks.NewClient(t),
		network: walletkittest.NewNetwork(chainType, "test-"+t.Name()),
	}
	t.Cleanup(f.Account.Give)
	t.Cleanup(f.network.Give)

	s, err := walletservice.New(t.Context(), walletservice.Config{
		Registry: f.Registry,
		Account:  f.Account,
		PaperKey: walletkittest.PaperKey,
		Path:     "walletservice-test",
		Networks: []walletservice.Network{{
			Name:          "testnet",
			Network:       f.network,
			Client:        f.client,
			AddressScheme: walletkit.AddressSchemeGENDefault,
			Currencies:    []walletkit.Currency{walletkittest.Token},
		}},
	}, walletservice.WithManagerOptions(walletkit.WithEngineOptions(walletkit.WithSyncPeriod(time.Hour))))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	f.service = s
	return f
}

// funded expects one sync pass that credits the account with 70 base units.
func (f *fixture) funded() {
	f.client.EXPECT().GetBlockNumber(mock.Anything, f.network).Return(1200, "0xtip", nil).Once()
	f.client.EXPECT().
		GetTransfers(mock.Anything, f.network, []string{f.Address()}, uint64(100), uint64(1201)).
		Return([]walletkit.TransferBundle{walletkittest.Bundle("0xfund", "faucet", f.Address(), "70", "")}, nil).
		Once()
}

func request(amount string) walletservice.TransferRequest {
	return walletservice.TransferRequest{Network: "testnet", Currency: "tst", Target: "bob", Amount: amount}
}

func TestNew(t *testing.T) {
	t.Run("requires at least one network", func(t *testing.T) {
		f := walletkittest.NewFixture(chainType)
		defer f.Account.Give()

		_, err := walletservice.New(t.Context(), walletservice.Config{
			Registry: f.Registry,
			Account:  f.Account,
			PaperKey: walletkittest.PaperKey,
			Path:     "walletservice-test",
		})
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}

func TestService_Balances(t *testing.T) {
	t.Run("reports every wallet after a sync pass", func(t *testing.T) {
		f := newFixture(t)
		f.funded()

		balances, err := f.service.Balances(t.Context())
		require.NoError(t, err)

		assert.Equal(t, []walletservice.Balance{
			{Network: "testnet", Currency: "tst", Address: f.Address(), Amount: "70 t", Transfers: 1},
			{Network: "testnet", Currency: "tok", Address: f.Address(), Amount: "0 k", Transfers: 0},
		}, balances)
	})

	t.Run("reports stale balances of an unreachable network", func(t *testing.T) {
		f := newFixture(t)
		f.client.EXPECT().GetBlockNumber(mock.Anything, f.network).Return(0, "", errors.New("connection refused")).Once()

		balances, err := f.service.Balances(t.Context())
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, "0 t", balances[0].Amount)
	})

	t.Run("fails after close", func(t *testing.T) {
		f := newFixture(t)
		f.service.Close()
		f.service.Close()

		_, err := f.service.Balances(t.Context())
		assert.ErrorIs(t, err, walletservice.ErrServiceClosed)
	})
}

func TestService_EstimateFee(t *testing.T) {
	t.Run("quotes at the cheapest network fee", func(t *testing.T) {
		f := newFixture(t)
		f.funded()
		f.client.EXPECT().
			EstimateTransactionFee(mock.Anything, f.network, walletkit.FeeEstimateRequest{Target: "bob", Amount: "25"}).
			Return(walletkit.FeeEstimate{CostUnits: 3}, nil).
			Once()

		quote, err := f.service.EstimateFee(t.Context(), request("25"))
		require.NoError(t, err)

		assert.Equal(t, walletservice.Quote{Network: "testnet", Currency: "tst", Fee: "3 t", CostFactor: 3}, quote)
	})

	t.Run("rejects unknown networks and currencies", func(t *testing.T) {
		f := newFixture(t)

		req := request("25")
		req.Network = "mainnet"
		_, err := f.service.EstimateFee(t.Context(), req)
		assert.ErrorIs(t, err, walletservice.ErrUnknownNetwork)

		req = request("25")
		req.Currency = "usd"
		_, err = f.service.EstimateFee(t.Context(), req)
		assert.ErrorIs(t, err, walletservice.ErrUnknownCurrency)
	})

	t.Run("validates the request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.EstimateFee(t.Context(), request("lots"))
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		req := request("25")
		req.Target = ""
		_, err = f.service.EstimateFee(t.Context(), req)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}

func TestService_Send(t *testing.T) {
	t.Run("waits for the submission", func(t *testing.T) {
		f := newFixture(t)
		f.funded()
		f.client.EXPECT().EstimateTransactionFee(mock.Anything, f.network, mock.Anything).Return(walletkit.FeeEstimate{CostUnits: 2}, nil).Once()
		f.client.EXPECT().SubmitTransaction(mock.Anything, f.network, mock.Anything, mock.Anything).Return("0xsent", nil).Once()

		receipt, err := f.service.Send(t.Context(), request("25"))
		require.NoError(t, err)

		assert.NotEmpty(t, receipt.UIDS)
		assert.Equal(t, "0x"+receipt.UIDS, receipt.Hash)
		assert.Equal(t, "SUBMITTED", receipt.State)
		assert.Empty(t, receipt.Error)
	})

	t.Run("reports a rejected submission", func(t *testing.T) {
		f := newFixture(t)
		f.funded()
		f.client.EXPECT().EstimateTransactionFee(mock.Anything, f.network, mock.Anything).Return(walletkit.FeeEstimate{CostUnits: 2}, nil).Once()
		f.client.EXPECT().SubmitTransaction(mock.Anything, f.network, mock.Anything, mock.Anything).Return("", errors.New("nonce too low")).Once()

		receipt, err := f.service.Send(t.Context(), request("25"))
		assert.ErrorIs(t, err, walletservice.ErrTransferRejected)
		assert.Equal(t, "ERRORED", receipt.State)
		assert.Contains(t, receipt.Error, "nonce too low")
	})

	t.Run("sign failure leaves nothing to wait for", func(t *testing.T) {
		f := newFixture(t)
		f.Chain.FailSigning(errors.New("hardware wallet unplugged"))
		f.funded()
		f.client.EXPECT().EstimateTransactionFee(mock.Anything, f.network, mock.Anything).Return(walletkit.FeeEstimate{CostUnits: 2}, nil).Once()

		_, err := f.service.Send(t.Context(), request("25"))
		assert.ErrorIs(t, err, walletkit.ErrSignFailed)
	})
}
