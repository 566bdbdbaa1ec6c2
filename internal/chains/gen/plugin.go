// Package gen implements the walletkit handlers of generic chains: account
// chains with a single native currency whose specifics (keys, addresses,
// fees, signing) are supplied by a Plugin.
package gen

import (
	"errors"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// UnknownAddress is the target some chains report for value burnt alongside
// a transfer.
const UnknownAddress = "unknown"

var (
	// ErrNoTransaction is returned when a transfer found on chain is asked
	// for a serialization only transfers created by the wallet carry.
	ErrNoTransaction = errors.New("transfer has no originating transaction")

	// ErrWrongKey is returned when a seed does not derive the account.
	ErrWrongKey = errors.New("seed does not derive the account")
)

// Account is the account material of a generic chain.
type Account struct {
	Address   string
	PublicKey []byte
}

// FeeBasis is the plugin-native fee basis, amounts in base units.
type FeeBasis interface {
	Fee() uint64
	CostFactor() float64
	PricePerCostFactor() uint64
	Equal(FeeBasis) bool
}

// Transaction is a transfer's basis payload. Native holds the plugin's own
// operation data, if any.
type Transaction struct {
	Hash          string
	Source        string
	Target        string
	Amount        uint64
	FeeBasis      FeeBasis
	Serialization []byte
	Signed        bool
	Native        any
}

// SignContext is the chain state a plugin may need to sign or forge.
type SignContext struct {
	Account       Account
	LastBlockHash string

	// HasSent reports whether the account already has an outgoing transfer.
	HasSent bool
}

// Plugin supplies the chain-specific operations of a generic chain.
type Plugin interface {
	Type() walletkit.NetworkType

	DeriveAccount(seed []byte) (Account, error)

	// ParseAddress validates s and returns its canonical form.
	ParseAddress(s string) (string, error)

	// DefaultFeeBasis is the fee basis of a wallet before any estimate,
	// at pricePerCostFactor.
	DefaultFeeBasis(pricePerCostFactor uint64) FeeBasis

	// ActualFeeBasis is the fee basis of a transfer seen on chain.
	ActualFeeBasis(fee uint64) FeeBasis

	// CreateTransaction builds the unsigned transaction of a transfer.
	CreateTransaction(source Account, target string, amount uint64, fb FeeBasis, attributes []walletkit.TransferAttribute) (Transaction, error)

	// PrepareForFeeEstimation returns tx with the serialization the client
	// estimates the fee of.
	PrepareForFeeEstimation(tx Transaction, sc SignContext) (Transaction, error)

	// EstimatedFeeBasis turns the client's estimate for tx into a fee basis.
	EstimatedFeeBasis(tx Transaction, pricePerCostFactor uint64, estimate walletkit.FeeEstimate) (FeeBasis, error)

	// Sign returns tx signed by the key of seed, with its hash and signed
	// serialization set.
	Sign(tx Transaction, seed []byte, sc SignContext) (Transaction, error)
}
