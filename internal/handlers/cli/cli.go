package cli

import (
	"context"
	"os"

	"github.com/gabapcia/walletkit/internal/walletservice"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the walletkit CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Connects every wallet manager and keeps them syncing.
//   - `balances`: Syncs once and prints every wallet's balance.
//   - `estimate-fee`: Quotes the fee of a transfer.
//   - `send`: Creates, signs and submits a transfer.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, ws walletservice.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "walletkit",
		Description:           "Command-line interface for a multi-chain wallet: sync, inspect and send.",
		Usage:                 "walletkit [command] [flags]",
		Commands: []*cli.Command{
			startCommand(ws),
			balancesCommand(ws),
			estimateFeeCommand(ws),
			sendCommand(ws),
		},
	}

	return app.Run(ctx, os.Args)
}
