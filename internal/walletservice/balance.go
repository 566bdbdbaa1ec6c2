package walletservice

import (
	"context"
	"maps"
	"slices"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

func (s *service) Balances(ctx context.Context) ([]Balance, error) {
	managers, err := s.allManagers()
	if err != nil {
		return nil, err
	}
	defer giveManagers(managers)

	// A network that failed to sync still reports what it already knows.
	if err := s.syncAll(ctx, managers); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn(ctx, "failed to sync every network", "error", err)
	}

	var balances []Balance
	for _, name := range slices.Sorted(maps.Keys(managers)) {
		bs, err := walletBalances(name, managers[name])
		if err != nil {
			return nil, err
		}
		balances = append(balances, bs...)
	}
	return balances, nil
}

func walletBalances(name string, m *walletkit.WalletManager) ([]Balance, error) {
	address, err := m.Address()
	if err != nil {
		return nil, err
	}
	defer address.Give()

	wallets := m.Wallets()
	defer giveWallets(wallets)

	balances := make([]Balance, 0, len(wallets))
	for _, w := range wallets {
		balances = append(balances, Balance{
			Network:   name,
			Currency:  w.Currency().Code,
			Address:   address.String(),
			Amount:    displayAmount(m.Network(), w.Balance()),
			Transfers: w.TransferCount(),
		})
	}
	return balances, nil
}
