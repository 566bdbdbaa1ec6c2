// Command walletkit runs wallet managers for one HD account across the
// configured networks. Configuration is read from WALLETKIT_* variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gabapcia/walletkit/internal/chains/btc"
	"github.com/gabapcia/walletkit/internal/chains/eth"
	"github.com/gabapcia/walletkit/internal/chains/gen"
	"github.com/gabapcia/walletkit/internal/chains/xtz"
	"github.com/gabapcia/walletkit/internal/config"
	"github.com/gabapcia/walletkit/internal/handlers/cli"
	"github.com/gabapcia/walletkit/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/walletkit/internal/infra/blockset"
	"github.com/gabapcia/walletkit/internal/infra/storage/memory"
	"github.com/gabapcia/walletkit/internal/infra/storage/redis"
	"github.com/gabapcia/walletkit/internal/networks"
	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/resilience/retry"
	"github.com/gabapcia/walletkit/internal/pkg/telemetry"
	httpclient "github.com/gabapcia/walletkit/internal/pkg/transport/http"
	"github.com/gabapcia/walletkit/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/walletkit/internal/walletkit"
	"github.com/gabapcia/walletkit/internal/walletservice"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hashicorp/go-retryablehttp"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}
		defer func() {
			err = errors.Join(err, shutdown(context.WithoutCancel(ctx)))
		}()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	registry, err := walletkit.NewRegistry(
		btc.New(bitcoinParams(cfg.Mainnet)).Handlers(),
		eth.New(cfg.EthereumChainID).Handlers(),
		gen.New(xtz.New()).Handlers(),
	)
	if err != nil {
		return err
	}

	account, err := walletkit.NewAccount(registry, cfg.PaperKey, cfg.AccountTimestamp, cfg.AccountUIDS)
	if err != nil {
		return err
	}
	defer account.Give()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	mode, err := walletkit.ParseSyncMode(cfg.SyncMode)
	if err != nil {
		return err
	}

	httpClient := httpclient.NewClient(
		httpclient.WithTimeout(cfg.HTTPTimeout),
		httpclient.WithRetryMax(cfg.HTTPRetryMax),
		httpclient.WithUserAgent(cfg.ServiceName),
		httpclient.WithRequestLogging(),
	)

	nets, err := newNetworks(cfg, httpClient)
	defer func() {
		for _, n := range nets {
			n.Network.Give()
		}
	}()
	if err != nil {
		return err
	}

	ws, err := walletservice.New(ctx, walletservice.Config{
		Registry: registry,
		Account:  account,
		PaperKey: cfg.PaperKey,
		Path:     cfg.Path,
		Mode:     mode,
		Networks: nets,
	}, walletservice.WithManagerOptions(
		walletkit.WithBundleStore(store),
		walletkit.WithCheckpointStore(store),
		walletkit.WithEngineOptions(
			walletkit.WithSyncPeriod(cfg.SyncPeriod),
			walletkit.WithRetry(syncRetry(ctx, cfg)),
		),
	))
	if err != nil {
		return err
	}
	defer ws.Close()

	return cli.Run(ctx, ws)
}

func bitcoinParams(mainnet bool) *chaincfg.Params {
	if mainnet {
		return &chaincfg.MainNetParams
	}
	return &chaincfg.TestNet3Params
}

type store interface {
	walletkit.BundleStore
	walletkit.CheckpointStore
}

// newStore returns redis when configured, memory otherwise.
func newStore(ctx context.Context, cfg config.Config) (store, func(), error) {
	if !cfg.UsesRedis() {
		return memory.NewStore(), func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisAddr,
		redis.WithCredentials(cfg.RedisUsername, cfg.RedisPassword),
		redis.WithDB(cfg.RedisDB),
		redis.WithNamespace(cfg.ServiceName),
	)
	if err != nil {
		return nil, nil, err
	}

	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn(ctx, "failed to close redis client", "error", err)
		}
	}, nil
}

func syncRetry(ctx context.Context, cfg config.Config) retry.Retry {
	return retry.New(
		retry.WithAttempts(cfg.SyncAttempts),
		retry.WithPermanentErrors(walletkit.ErrClientUnsupported, walletkit.ErrNotImplemented),
		retry.WithOnRetry(func(attempt uint, err error) {
			logger.Debug(ctx, "retrying client query", "attempt", attempt+1, "error", err)
		}),
	)
}

// newNetworks builds every configured network. The caller owns the returned
// networks, including the ones built before a failure.
func newNetworks(cfg config.Config, httpClient *retryablehttp.Client) ([]walletservice.Network, error) {
	indexer := blockset.NewClient(httpClient, cfg.BlocksetEndpoint, cfg.BlocksetToken)

	var nets []walletservice.Network
	for _, name := range cfg.Networks {
		opts := []networks.Option{networks.WithMainnet(cfg.Mainnet)}

		var (
			client walletkit.Client = indexer
			scheme walletkit.AddressScheme
		)
		switch name {
		case networks.Bitcoin:
			scheme = walletkit.AddressSchemeBTCSegwit
		case networks.Ethereum:
			scheme = walletkit.AddressSchemeETHDefault
			if cfg.EthereumEndpoint != "" {
				client = ethereum.NewClient(jsonrpc.NewClient(httpClient.StandardClient(), cfg.EthereumEndpoint))
			}
			if cfg.EthereumStartBlock > 0 {
				opts = append(opts, networks.WithEarliestBlock(cfg.EthereumStartBlock))
			}
		case networks.Tezos:
			scheme = walletkit.AddressSchemeGENDefault
		}

		n, err := networks.New(name, opts...)
		if err != nil {
			return nets, err
		}

		nets = append(nets, walletservice.Network{
			Name:          name,
			Network:       n,
			Client:        client,
			AddressScheme: scheme,
			Currencies:    networks.Currencies(n),
		})
	}

	return nets, nil
}
