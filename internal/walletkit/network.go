package walletkit

import (
	"strings"
	"sync"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/refcount"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
)

// NetworkFee is one entry of a network's fee schedule.
type NetworkFee struct {
	ConfirmationTime   time.Duration
	PricePerCostFactor Amount
}

// CurrencyAssociation lists the units of one currency on a network.
type CurrencyAssociation struct {
	Currency    Currency
	BaseUnit    Unit
	DefaultUnit Unit
	Units       []Unit
}

// NetworkConfig describes a network at construction time.
type NetworkConfig struct {
	UIDS                    string                `validate:"required"`
	Name                    string                `validate:"required"`
	Type                    NetworkType
	IsMainnet               bool
	Currency                Currency              `validate:"required"`
	Associations            []CurrencyAssociation `validate:"required,min=1"`
	Fees                    []NetworkFee          `validate:"required,min=1"`
	ConfirmationsUntilFinal uint32
	EarliestBlock           uint64
	Height                  uint64
}

// Network describes a chain: its identity, currencies, units and fee
// schedule. Identity is immutable; the verified height and hash move with
// sync activity.
type Network struct {
	ref refcount.Counter

	uids                    string
	name                    string
	typ                     NetworkType
	isMainnet               bool
	currency                Currency
	associations            []CurrencyAssociation
	confirmationsUntilFinal uint32
	earliestBlock           uint64

	mu                sync.RWMutex
	height            uint64
	verifiedBlockHash string
	fees              []NetworkFee
}

// NewNetwork validates cfg and returns a network holding one reference.
func NewNetwork(cfg NetworkConfig) (*Network, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	if !cfg.Type.IsValid() {
		return nil, ErrUnsupportedNetwork
	}

	n := &Network{
		uids:                    cfg.UIDS,
		name:                    cfg.Name,
		typ:                     cfg.Type,
		isMainnet:               cfg.IsMainnet,
		currency:                cfg.Currency,
		associations:            cfg.Associations,
		confirmationsUntilFinal: cfg.ConfirmationsUntilFinal,
		earliestBlock:           cfg.EarliestBlock,
		height:                  cfg.Height,
		fees:                    cfg.Fees,
	}
	n.ref.Init("network", nil)

	if !n.HasCurrency(cfg.Currency) {
		return nil, ErrUnsupportedCurrency
	}
	return n, nil
}

func (n *Network) Take() *Network { n.ref.Retain(); return n }
func (n *Network) Give()          { n.ref.Release() }

func (n *Network) UIDS() string                    { return n.uids }
func (n *Network) Name() string                    { return n.name }
func (n *Network) Type() NetworkType               { return n.typ }
func (n *Network) IsMainnet() bool                 { return n.isMainnet }
func (n *Network) Currency() Currency              { return n.currency }
func (n *Network) ConfirmationsUntilFinal() uint32 { return n.confirmationsUntilFinal }
func (n *Network) EarliestBlock() uint64           { return n.earliestBlock }

// Currencies lists every currency with units on the network.
func (n *Network) Currencies() []Currency {
	cs := make([]Currency, len(n.associations))
	for i, a := range n.associations {
		cs[i] = a.Currency
	}
	return cs
}

func (n *Network) association(c Currency) (CurrencyAssociation, bool) {
	for _, a := range n.associations {
		if a.Currency.Equal(c) {
			return a, true
		}
	}
	return CurrencyAssociation{}, false
}

func (n *Network) HasCurrency(c Currency) bool {
	_, ok := n.association(c)
	return ok
}

// CurrencyByCode finds a currency by its (case-sensitive) code.
func (n *Network) CurrencyByCode(code string) (Currency, bool) {
	for _, a := range n.associations {
		if a.Currency.Code == code {
			return a.Currency, true
		}
	}
	return Currency{}, false
}

// CurrencyByUIDS finds a currency by its unique identifier.
func (n *Network) CurrencyByUIDS(uids string) (Currency, bool) {
	for _, a := range n.associations {
		if a.Currency.UIDS == uids {
			return a.Currency, true
		}
	}
	return Currency{}, false
}

// CurrencyByIssuer finds a token currency by its issuer (contract) address.
func (n *Network) CurrencyByIssuer(issuer string) (Currency, bool) {
	for _, a := range n.associations {
		if issuer != "" && strings.EqualFold(a.Currency.Issuer, issuer) {
			return a.Currency, true
		}
	}
	return Currency{}, false
}

// BaseUnit returns the smallest unit of c.
func (n *Network) BaseUnit(c Currency) (Unit, bool) {
	a, ok := n.association(c)
	return a.BaseUnit, ok
}

// DefaultUnit returns the display unit of c.
func (n *Network) DefaultUnit(c Currency) (Unit, bool) {
	a, ok := n.association(c)
	return a.DefaultUnit, ok
}

// Units lists every unit of c.
func (n *Network) Units(c Currency) []Unit {
	a, _ := n.association(c)
	return a.Units
}

// Height returns the last verified block height.
func (n *Network) Height() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.height
}

// VerifiedBlockHash returns the hash of the block at Height, if known.
func (n *Network) VerifiedBlockHash() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.verifiedBlockHash
}

// setVerifiedBlock records a new tip and reports whether the height changed.
func (n *Network) setVerifiedBlock(height uint64, hash string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	changed := n.height != height
	n.height = height
	if hash != "" {
		n.verifiedBlockHash = hash
	}
	return changed
}

// Fees returns the current fee schedule.
func (n *Network) Fees() []NetworkFee {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]NetworkFee(nil), n.fees...)
}

// MinimumFee returns the fee with the longest confirmation time.
func (n *Network) MinimumFee() NetworkFee {
	n.mu.RLock()
	defer n.mu.RUnlock()

	minimum := n.fees[0]
	for _, f := range n.fees[1:] {
		if f.ConfirmationTime > minimum.ConfirmationTime {
			minimum = f
		}
	}
	return minimum
}

func (n *Network) setFees(fees []NetworkFee) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fees = append([]NetworkFee(nil), fees...)
}
