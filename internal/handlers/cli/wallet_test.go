package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gabapcia/walletkit/internal/walletservice"
	walletservicetest "github.com/gabapcia/walletkit/internal/walletservice/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

var sendArgs = []string{
	"--network", "ethereum",
	"--currency", "eth",
	"--target", "0x1234567890abcdef1234567890abcdef12345678",
	"--amount", "0.5",
}

var sendRequest = walletservice.TransferRequest{
	Network:  "ethereum",
	Currency: "eth",
	Target:   "0x1234567890abcdef1234567890abcdef12345678",
	Amount:   "0.5",
}

// runApp runs cmd inside a root command writing to a buffer.
func runApp(ctx context.Context, cmd *cli.Command, args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.Command{
		Writer:   &out,
		Commands: []*cli.Command{cmd},
	}

	err := app.Run(ctx, append([]string{"test", cmd.Name}, args...))
	return out.String(), err
}

func TestBalancesCommand(t *testing.T) {
	t.Run("should print a table of balances", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		mockService.EXPECT().Balances(mock.Anything).Return([]walletservice.Balance{
			{Network: "bitcoin", Currency: "btc", Address: "bc1qaddr", Amount: "0.5 ₿", Transfers: 2},
			{Network: "ethereum", Currency: "usdt", Address: "0xaddr", Amount: "10 USDT", Transfers: 1},
		}, nil).Once()

		// Act
		out, err := runApp(t.Context(), balancesCommand(mockService))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "NETWORK")
		assert.Contains(t, out, "bc1qaddr")
		assert.Contains(t, out, "0.5 ₿")
		assert.Contains(t, out, "10 USDT")
	})

	t.Run("should bound the call with the timeout flag", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		mockService.EXPECT().Balances(mock.Anything).Run(func(ctx context.Context) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, 5*time.Second)
		}).Return(nil, nil).Once()

		// Act
		_, err := runApp(t.Context(), balancesCommand(mockService), "--timeout", "30s")

		// Assert
		assert.NoError(t, err)
	})

	t.Run("should return error when service fails", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		mockService.EXPECT().Balances(mock.Anything).Return(nil, assert.AnError).Once()

		// Act
		_, err := runApp(t.Context(), balancesCommand(mockService))

		// Assert
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestEstimateFeeCommand(t *testing.T) {
	t.Run("should create command with correct metadata", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)

		// Act
		cmd := estimateFeeCommand(mockService)

		// Assert
		assert.Equal(t, "estimate-fee", cmd.Name)
		assert.Len(t, cmd.Flags, 5)

		networkFlag := cmd.Flags[0].(*cli.StringFlag)
		assert.Equal(t, "network", networkFlag.Name)
		assert.True(t, networkFlag.Required)
	})

	t.Run("should print the quote", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		mockService.EXPECT().EstimateFee(mock.Anything, sendRequest).
			Return(walletservice.Quote{Network: "ethereum", Currency: "eth", Fee: "0.000042 Ξ", CostFactor: 21000}, nil).
			Once()

		// Act
		out, err := runApp(t.Context(), estimateFeeCommand(mockService), sendArgs...)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "fee: 0.000042 Ξ (cost factor 21000)\n", out)
	})

	t.Run("should fail with missing flags", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)

		// Act
		_, err := runApp(t.Context(), estimateFeeCommand(mockService), "--network", "ethereum")

		// Assert
		assert.Error(t, err)
	})
}

func TestSendCommand(t *testing.T) {
	t.Run("should print the receipt", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		mockService.EXPECT().Send(mock.Anything, sendRequest).
			Return(walletservice.Receipt{UIDS: "0197-uids", Hash: "0xabc", State: "SUBMITTED"}, nil).
			Once()

		// Act
		out, err := runApp(t.Context(), sendCommand(mockService), sendArgs...)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "transfer 0197-uids SUBMITTED (hash 0xabc)\n", out)
	})

	t.Run("should return error when the transfer is rejected", func(t *testing.T) {
		// Arrange
		mockService := walletservicetest.NewService(t)
		rejected := errors.Join(walletservice.ErrTransferRejected, errors.New("nonce too low"))
		mockService.EXPECT().Send(mock.Anything, sendRequest).
			Return(walletservice.Receipt{UIDS: "0197-uids", State: "ERRORED"}, rejected).
			Once()

		// Act
		out, err := runApp(t.Context(), sendCommand(mockService), sendArgs...)

		// Assert
		assert.ErrorIs(t, err, walletservice.ErrTransferRejected)
		assert.Empty(t, out)
	})
}
