package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/gabapcia/walletkit/internal/walletservice"

	"github.com/urfave/cli/v3"
)

const defaultTimeout = 2 * time.Minute

func timeoutFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  "timeout",
		Usage: "How long to wait for the networks before giving up",
		Value: defaultTimeout,
	}
}

// transferFlags are the flags describing an outgoing transfer.
func transferFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "network",
			Usage:    "Network name (e.g., bitcoin, ethereum, tezos)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "currency",
			Usage:    "Currency code (e.g., btc, eth, usdt, xtz)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "target",
			Usage:    "Address receiving the transfer",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "Amount in the currency's default unit (e.g., 0.25)",
			Required: true,
		},
		timeoutFlag(),
	}
}

func transferRequest(c *cli.Command) walletservice.TransferRequest {
	return walletservice.TransferRequest{
		Network:  c.String("network"),
		Currency: c.String("currency"),
		Target:   c.String("target"),
		Amount:   c.String("amount"),
	}
}

// balancesCommand returns a CLI command that syncs every network once and
// prints the balance of every wallet.
//
// Usage example:
//
//	walletkit balances --timeout 30s
func balancesCommand(ws walletservice.Service) *cli.Command {
	return &cli.Command{
		Name:        "balances",
		Description: "Syncs every configured network once and prints the balance of every wallet.",
		Usage:       "Prints wallet balances.",
		Flags:       []cli.Flag{timeoutFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
			defer cancel()

			balances, err := ws.Balances(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NETWORK\tCURRENCY\tADDRESS\tBALANCE\tTRANSFERS")
			for _, b := range balances {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", b.Network, b.Currency, b.Address, b.Amount, b.Transfers)
			}
			return w.Flush()
		},
	}
}

// estimateFeeCommand returns a CLI command that quotes the fee of a transfer.
//
// Usage example:
//
//	walletkit estimate-fee --network ethereum --currency eth --target 0xABC123... --amount 0.1
func estimateFeeCommand(ws walletservice.Service) *cli.Command {
	return &cli.Command{
		Name:        "estimate-fee",
		Description: "Estimates the fee of a transfer without creating it.",
		Usage:       "Quotes a transfer fee. Must provide network, currency, target and amount.",
		Flags:       transferFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
			defer cancel()

			quote, err := ws.EstimateFee(ctx, transferRequest(c))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.Root().Writer, "fee: %s (cost factor %g)\n", quote.Fee, quote.CostFactor)
			return err
		},
	}
}

// sendCommand returns a CLI command that creates, signs and submits a
// transfer, then waits until the network accepts or rejects it.
//
// Usage example:
//
//	walletkit send --network bitcoin --currency btc --target bc1q... --amount 0.001
func sendCommand(ws walletservice.Service) *cli.Command {
	return &cli.Command{
		Name:        "send",
		Description: "Creates, signs and submits a transfer with the account's paper key.",
		Usage:       "Sends a transfer. Must provide network, currency, target and amount.",
		Flags:       transferFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
			defer cancel()

			receipt, err := ws.Send(ctx, transferRequest(c))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.Root().Writer, "transfer %s %s (hash %s)\n", receipt.UIDS, receipt.State, receipt.Hash)
			return err
		},
	}
}
