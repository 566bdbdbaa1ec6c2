// Package networks holds the catalog of networks walletkit ships with:
// Bitcoin, Ethereum (with USDT on mainnet) and Tezos, each in a mainnet
// and a testnet flavour. Identifiers follow the blockset naming so bundles
// returned by the blockset adapter resolve their currencies directly.
package networks

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// ErrUnknownNetwork is returned when a name is not in the catalog.
var ErrUnknownNetwork = errors.New("unknown network")

const nativeIssuer = "__native__"

// Supported network names.
const (
	Bitcoin  = "bitcoin"
	Ethereum = "ethereum"
	Tezos    = "tezos"
)

const usdtMainnetIssuer = "0xdac17f958d2ee523a2206206994597c13d831ec7"

type config struct {
	mainnet       bool
	earliestBlock uint64
	hasEarliest   bool
}

// Option customizes a catalog entry.
type Option func(*config)

// WithMainnet selects the mainnet (true) or the testnet (false) flavour.
func WithMainnet(mainnet bool) Option {
	return func(c *config) {
		c.mainnet = mainnet
	}
}

// WithEarliestBlock overrides the block syncing starts from when no
// checkpoint exists.
func WithEarliestBlock(height uint64) Option {
	return func(c *config) {
		c.earliestBlock = height
		c.hasEarliest = true
	}
}

// Names lists the catalog in a stable order.
func Names() []string {
	return []string{Bitcoin, Ethereum, Tezos}
}

// Config returns the NetworkConfig of name.
func Config(name string, opts ...Option) (walletkit.NetworkConfig, error) {
	cfg := config{mainnet: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		nc  walletkit.NetworkConfig
		err error
	)
	switch name {
	case Bitcoin:
		nc = bitcoin(cfg.mainnet)
	case Ethereum:
		nc = ethereum(cfg.mainnet)
	case Tezos:
		nc = tezos(cfg.mainnet)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	if err != nil {
		return walletkit.NetworkConfig{}, err
	}

	if cfg.hasEarliest {
		nc.EarliestBlock = cfg.earliestBlock
		nc.Height = max(nc.Height, cfg.earliestBlock)
	}
	return nc, nil
}

// New builds the network called name. The caller owns the returned reference.
func New(name string, opts ...Option) (*walletkit.Network, error) {
	nc, err := Config(name, opts...)
	if err != nil {
		return nil, err
	}
	return walletkit.NewNetwork(nc)
}

// Currencies returns every non-native currency of the network, the ones a
// manager creates extra wallets for.
func Currencies(n *walletkit.Network) []walletkit.Currency {
	return slices.DeleteFunc(n.Currencies(), func(c walletkit.Currency) bool {
		return c.Equal(n.Currency())
	})
}

func native(uids, code, name string) walletkit.Currency {
	return walletkit.Currency{
		UIDS: uids + ":" + nativeIssuer,
		Code: code,
		Name: name,
		Type: walletkit.CurrencyTypeNative,
	}
}

func association(c walletkit.Currency, base, def walletkit.Unit, others ...walletkit.Unit) walletkit.CurrencyAssociation {
	units := append([]walletkit.Unit{base, def}, others...)
	return walletkit.CurrencyAssociation{Currency: c, BaseUnit: base, DefaultUnit: def, Units: units}
}

func unit(c walletkit.Currency, id, name, symbol string, decimals uint8) walletkit.Unit {
	return walletkit.Unit{
		Currency: c,
		UIDS:     c.UIDS + ":" + id,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}
}

func bitcoin(mainnet bool) walletkit.NetworkConfig {
	uids, name, earliest := "bitcoin-testnet", "Bitcoin Testnet", uint64(1_575_000)
	if mainnet {
		uids, name, earliest = "bitcoin-mainnet", "Bitcoin", 564_000
	}

	btc := native(uids, "btc", "Bitcoin")
	sat := unit(btc, "sat", "Satoshi", "SAT", 0)
	whole := unit(btc, "btc", "Bitcoin", "₿", 8)

	// Prices are satoshis per kilobyte of serialized transaction.
	return walletkit.NetworkConfig{
		UIDS:         uids,
		Name:         name,
		Type:         walletkit.NetworkTypeBTC,
		IsMainnet:    mainnet,
		Currency:     btc,
		Associations: []walletkit.CurrencyAssociation{association(btc, sat, whole)},
		Fees: []walletkit.NetworkFee{
			{ConfirmationTime: 10 * time.Minute, PricePerCostFactor: walletkit.NewAmountFromUint64(sat, 20_000)},
			{ConfirmationTime: time.Hour, PricePerCostFactor: walletkit.NewAmountFromUint64(sat, 5_000)},
		},
		ConfirmationsUntilFinal: 6,
		EarliestBlock:           earliest,
		Height:                  earliest,
	}
}

func ethereum(mainnet bool) walletkit.NetworkConfig {
	uids, name, earliest := "ethereum-sepolia", "Ethereum Sepolia", uint64(3_000_000)
	if mainnet {
		uids, name, earliest = "ethereum-mainnet", "Ethereum", 8_000_000
	}

	eth := native(uids, "eth", "Ethereum")
	wei := unit(eth, "wei", "Wei", "wei", 0)
	gwei := unit(eth, "gwei", "Gwei", "gwei", 9)
	ether := unit(eth, "eth", "Ether", "Ξ", 18)

	assocs := []walletkit.CurrencyAssociation{association(eth, wei, ether, gwei)}
	if mainnet {
		usdt := walletkit.Currency{
			UIDS:   uids + ":" + usdtMainnetIssuer,
			Code:   "usdt",
			Name:   "Tether",
			Type:   walletkit.CurrencyTypeERC20,
			Issuer: usdtMainnetIssuer,
		}
		assocs = append(assocs, association(usdt, unit(usdt, "base", "USDT base", "USDTi", 0), unit(usdt, "usdt", "Tether", "USDT", 6)))
	}

	// Prices are wei per unit of gas.
	return walletkit.NetworkConfig{
		UIDS:         uids,
		Name:         name,
		Type:         walletkit.NetworkTypeETH,
		IsMainnet:    mainnet,
		Currency:     eth,
		Associations: assocs,
		Fees: []walletkit.NetworkFee{
			{ConfirmationTime: time.Minute, PricePerCostFactor: walletkit.NewAmountFromUint64(wei, 2_000_000_000)},
			{ConfirmationTime: 5 * time.Minute, PricePerCostFactor: walletkit.NewAmountFromUint64(wei, 1_000_000_000)},
		},
		ConfirmationsUntilFinal: 12,
		EarliestBlock:           earliest,
		Height:                  earliest,
	}
}

func tezos(mainnet bool) walletkit.NetworkConfig {
	uids, name, earliest := "tezos-testnet", "Tezos Testnet", uint64(0)
	if mainnet {
		uids, name, earliest = "tezos-mainnet", "Tezos", 1_212_000
	}

	xtz := native(uids, "xtz", "Tezos")
	mutez := unit(xtz, "mutez", "Mutez", "mtz", 0)
	tez := unit(xtz, "xtz", "Tez", "XTZ", 6)

	// Prices are mutez per kilobyte of forged operation.
	return walletkit.NetworkConfig{
		UIDS:         uids,
		Name:         name,
		Type:         walletkit.NetworkTypeXTZ,
		IsMainnet:    mainnet,
		Currency:     xtz,
		Associations: []walletkit.CurrencyAssociation{association(xtz, mutez, tez)},
		Fees: []walletkit.NetworkFee{
			{ConfirmationTime: time.Minute, PricePerCostFactor: walletkit.NewAmountFromUint64(mutez, 1_000)},
		},
		ConfirmationsUntilFinal: 30,
		EarliestBlock:           earliest,
		Height:                  earliest,
	}
}
