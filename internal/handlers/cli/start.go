package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/walletkit/internal/walletservice"

	"github.com/urfave/cli/v3"
)

// startCommand returns a CLI command that connects every configured wallet
// manager and keeps them syncing, logging every wallet event.
//
// Usage example:
//
//	walletkit start
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM) or its context ends.
func startCommand(ws walletservice.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Connects every configured network and keeps the wallets in sync.",
		Usage:       "Runs the wallet managers. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer signal.Stop(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := ws.Start(ctx); err != nil {
				return err
			}
			defer ws.Close()

			select {
			case <-quit:
			case <-ctx.Done():
			}
			return nil
		},
	}
}
