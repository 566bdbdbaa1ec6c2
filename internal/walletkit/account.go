package walletkit

import (
	"fmt"
	"slices"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/refcount"

	"github.com/google/uuid"
	"github.com/tyler-smith/go-bip39"
)

type accountKey struct {
	handler AccountHandler
	key     any
}

// Account holds the public key material derived from a paper key for every
// registered chain. It never stores the paper key or the seed and is
// immutable after creation.
type Account struct {
	ref       refcount.Counter
	uids      string
	timestamp time.Time
	keys      map[NetworkType]accountKey
}

// GeneratePaperKey returns a new 12-word BIP-39 phrase.
func GeneratePaperKey() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// DeriveSeed validates a paper key and returns its BIP-39 seed.
func DeriveSeed(paperKey string) ([]byte, error) {
	if !bip39.IsMnemonicValid(paperKey) {
		return nil, ErrInvalidPaperKey
	}
	return bip39.NewSeed(paperKey, ""), nil
}

// NewAccount derives the account of paperKey for every network type in the
// registry. An empty uids gets a generated identifier.
func NewAccount(registry *Registry, paperKey string, timestamp time.Time, uids string) (*Account, error) {
	seed, err := DeriveSeed(paperKey)
	if err != nil {
		return nil, err
	}

	if uids == "" {
		uids = uuid.Must(uuid.NewV7()).String()
	}

	a := &Account{
		uids:      uids,
		timestamp: timestamp,
		keys:      make(map[NetworkType]accountKey),
	}
	a.ref.Init("account", nil)

	for _, t := range registry.Types() {
		h, _ := registry.Lookup(t)

		key, err := h.Account.DeriveKey(seed)
		if err != nil {
			return nil, fmt.Errorf("derive %s account: %w", t, err)
		}

		a.keys[t] = accountKey{handler: h.Account, key: key}
	}

	return a, nil
}

func (a *Account) Take() *Account { a.ref.Retain(); return a }
func (a *Account) Give()          { a.ref.Release() }

func (a *Account) UIDS() string         { return a.uids }
func (a *Account) Timestamp() time.Time { return a.timestamp }

// Key returns the chain key material for t, used by chain handlers.
func (a *Account) Key(t NetworkType) (any, bool) {
	k, ok := a.keys[t]
	return k.key, ok
}

// IsInitialized reports whether the account has key material for t.
func (a *Account) IsInitialized(t NetworkType) bool {
	_, ok := a.keys[t]
	return ok
}

// Address returns a new reference to the account's address on t.
func (a *Account) Address(t NetworkType, scheme AddressScheme) (*Address, error) {
	k, ok := a.keys[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, t)
	}
	return k.handler.Address(k.key, scheme)
}

// HasAddress reports whether address belongs to the account.
func (a *Account) HasAddress(address *Address) bool {
	if address == nil {
		return false
	}

	k, ok := a.keys[address.Type()]
	return ok && k.handler.HasAddress(k.key, address)
}

// Addresses lists the addresses a client adapter queries for on t.
func (a *Account) Addresses(t NetworkType) []string {
	k, ok := a.keys[t]
	if !ok {
		return nil
	}
	return k.handler.Addresses(k.key)
}

// ValidatePaperKey reports whether paperKey derives this account.
func (a *Account) ValidatePaperKey(paperKey string) bool {
	seed, err := DeriveSeed(paperKey)
	if err != nil {
		return false
	}

	for _, k := range a.keys {
		key, err := k.handler.DeriveKey(seed)
		if err != nil || !slices.Equal(k.handler.Addresses(key), k.handler.Addresses(k.key)) {
			return false
		}
	}
	return true
}
