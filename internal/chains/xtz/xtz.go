// Package xtz is the Tezos plugin of the generic chain handlers.
package xtz

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"

	"github.com/gabapcia/walletkit/internal/chains/gen"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

// Attributes of a fee estimate.
const (
	AttributeConsumedGas = "consumed_gas"
	AttributeStorageSize = "storage_size"
	AttributeCounter     = "counter"
)

var (
	// ErrCounterUnknown is returned when signing a transaction whose fee
	// was never estimated; only estimates carry the account counter.
	ErrCounterUnknown = errors.New("account counter unknown, estimate the fee first")

	ErrAmountTooLarge = errors.New("amount exceeds the tezos range")
)

// Plugin implements gen.Plugin for Tezos.
type Plugin struct{}

// New returns the Tezos plugin.
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Type() walletkit.NetworkType { return walletkit.NetworkTypeXTZ }

func (p *Plugin) DeriveAccount(seed []byte) (gen.Account, error) {
	key, err := DeriveKey(seed, DerivationPath)
	if err != nil {
		return gen.Account{}, err
	}

	pub := key.Public().(ed25519.PublicKey)
	return gen.Account{Address: AddressFromPublicKey(pub).String(), PublicKey: pub}, nil
}

func (p *Plugin) ParseAddress(s string) (string, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// DefaultFeeBasis ignores the network price: initial limits are fixed.
func (p *Plugin) DefaultFeeBasis(uint64) gen.FeeBasis {
	return InitialFeeBasis()
}

func (p *Plugin) ActualFeeBasis(fee uint64) gen.FeeBasis {
	return ActualFeeBasis(int64(fee))
}

func (p *Plugin) CreateTransaction(source gen.Account, target string, amount uint64, fb gen.FeeBasis, _ []walletkit.TransferAttribute) (gen.Transaction, error) {
	if _, err := ParseAddress(target); err != nil {
		return gen.Transaction{}, err
	}
	if amount > 1<<63-1 {
		return gen.Transaction{}, ErrAmountTooLarge
	}

	return gen.Transaction{
		Source:   source.Address,
		Target:   target,
		Amount:   amount,
		FeeBasis: fb,
	}, nil
}

// forge builds the operation of tx. A reveal precedes the transaction when
// the account has never sent, and takes the first counter.
func (p *Plugin) forge(tx gen.Transaction, sc gen.SignContext, counter int64) (*Operation, error) {
	branch, err := parseBranch(sc.LastBlockHash)
	if err != nil {
		return nil, err
	}

	source, err := ParseAddress(tx.Source)
	if err != nil {
		return nil, err
	}

	destination, err := ParseAddress(tx.Target)
	if err != nil {
		return nil, err
	}

	fb := tx.FeeBasis.(FeeBasis)
	op := &Operation{
		Branch:       branch,
		Source:       source,
		Fee:          fb.fee64(),
		Counter:      counter,
		GasLimit:     fb.GasLimit,
		StorageLimit: fb.StorageLimit,
		Amount:       int64(tx.Amount),
		Destination:  destination,
	}

	if !sc.HasSent {
		op.Reveal = &Reveal{
			Fee:          revealFee,
			Counter:      counter,
			GasLimit:     revealGasLimit,
			StorageLimit: revealStorageLimit,
			PublicKey:    sc.Account.PublicKey,
		}
		op.Counter = counter + 1
	}

	return op, nil
}

// PrepareForFeeEstimation forges tx with a blank signature, which is what
// the node simulates.
func (p *Plugin) PrepareForFeeEstimation(tx gen.Transaction, sc gen.SignContext) (gen.Transaction, error) {
	fb := tx.FeeBasis.(FeeBasis)

	op, err := p.forge(tx, sc, fb.Counter)
	if err != nil {
		return gen.Transaction{}, err
	}

	tx.Serialization = append(op.Forge(), make([]byte, ed25519.SignatureSize)...)
	tx.Native = op
	return tx, nil
}

func (p *Plugin) EstimatedFeeBasis(tx gen.Transaction, pricePerCostFactor uint64, estimate walletkit.FeeEstimate) (gen.FeeBasis, error) {
	gas, err := estimateAttribute(estimate, AttributeConsumedGas)
	if err != nil {
		return nil, err
	}

	storage, err := estimateAttribute(estimate, AttributeStorageSize)
	if err != nil {
		return nil, err
	}

	counter, err := estimateAttribute(estimate, AttributeCounter)
	if err != nil {
		return nil, err
	}

	size := float64(len(tx.Serialization)) / 1000
	return EstimatedFeeBasis(int64(pricePerCostFactor), size, gas, storage, counter+1), nil
}

func estimateAttribute(estimate walletkit.FeeEstimate, key string) (int64, error) {
	v, ok := estimate.Attributes[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", walletkit.ErrFeeEstimateUnavailable, key)
	}

	n, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", walletkit.ErrFeeEstimateUnavailable, key, err)
	}
	return n, nil
}

func (p *Plugin) Sign(tx gen.Transaction, seed []byte, sc gen.SignContext) (gen.Transaction, error) {
	fb := tx.FeeBasis.(FeeBasis)
	if fb.Kind != FeeEstimate {
		return gen.Transaction{}, ErrCounterUnknown
	}

	key, err := DeriveKey(seed, DerivationPath)
	if err != nil {
		return gen.Transaction{}, err
	}

	op, err := p.forge(tx, sc, fb.Counter)
	if err != nil {
		return gen.Transaction{}, err
	}

	tx.Serialization, tx.Hash = SignForged(op.Forge(), key)
	tx.Signed = true
	tx.Native = op
	return tx, nil
}
