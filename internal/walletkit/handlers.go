package walletkit

import (
	"context"
	"fmt"
	"strings"
)

// NetworkType tags every entity with the blockchain family that implements it.
type NetworkType uint8

const (
	NetworkTypeBTC NetworkType = iota
	NetworkTypeBCH
	NetworkTypeBSV
	NetworkTypeETH
	NetworkTypeXRP
	NetworkTypeHBAR
	NetworkTypeXTZ

	numberOfNetworkTypes
)

var networkTypeNames = [numberOfNetworkTypes]string{
	NetworkTypeBTC:  "btc",
	NetworkTypeBCH:  "bch",
	NetworkTypeBSV:  "bsv",
	NetworkTypeETH:  "eth",
	NetworkTypeXRP:  "xrp",
	NetworkTypeHBAR: "hbar",
	NetworkTypeXTZ:  "xtz",
}

func (t NetworkType) String() string {
	if t >= numberOfNetworkTypes {
		return fmt.Sprintf("NetworkType(%d)", uint8(t))
	}
	return networkTypeNames[t]
}

// IsValid reports whether t is one of the known network types.
func (t NetworkType) IsValid() bool {
	return t < numberOfNetworkTypes
}

// ParseNetworkType parses the lower-case code of a network type ("btc", "eth", ...).
func ParseNetworkType(s string) (NetworkType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range networkTypeNames {
		if name == s {
			return NetworkType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, s)
}

// AccountHandler derives and queries the per-chain public key material of an Account.
type AccountHandler interface {
	// DeriveKey derives the chain's public account material from a BIP-39 seed.
	DeriveKey(seed []byte) (any, error)

	// Address returns a new reference to the account's receive address for the scheme.
	Address(key any, scheme AddressScheme) (*Address, error)

	// HasAddress reports whether address belongs to the account.
	HasAddress(key any, address *Address) bool

	// Addresses lists every address the client adapter should query for.
	Addresses(key any) []string
}

// AddressHandler parses, formats and compares chain-native addresses.
type AddressHandler interface {
	Parse(s string) (*Address, error)
	String(a *Address) string
	Equal(a, b *Address) bool
}

// FeeBasisHandler turns a chain fee basis into amounts.
type FeeBasisHandler interface {
	Fee(fb *FeeBasis) Amount
	CostFactor(fb *FeeBasis) float64
	PricePerCostFactor(fb *FeeBasis) Amount
	Equal(a, b *FeeBasis) bool
}

// TransferHandler exposes the chain-specific view of a Transfer's basis.
type TransferHandler interface {
	// Hash returns the chain-native hash, if the transfer has one yet.
	Hash(t *Transfer) (Hash, bool)

	// Serialize encodes the transfer's originating transaction. With
	// requireSignature it fails with ErrSerializationWithoutSignature when
	// the transfer is not signed.
	Serialize(t *Transfer, network *Network, requireSignature bool) ([]byte, error)

	Equal(a, b *Transfer) bool
}

// WalletHandler creates outgoing transfers and compares wallets.
type WalletHandler interface {
	CreateTransfer(m *WalletManager, w *Wallet, target *Address, amount Amount, estimatedFeeBasis *FeeBasis, attributes []TransferAttribute) (*Transfer, error)
	Equal(a, b *Wallet) bool
}

// Recovered is the result of normalizing a client bundle into a transfer.
//
// Wallet and Transfer are taken references owned by the Recovered. When IsNew
// is false, Transfer is already held by Wallet and State is the update the
// chain reported for it. A fee basis carried by an INCLUDED State is owned by
// the Recovered as well.
type Recovered struct {
	Wallet   *Wallet
	Transfer *Transfer
	State    TransferState
	IsNew    bool
}

// NewRecovered assembles a Recovered. fb is the handler's own reference to
// the fee basis it built for the bundle: it moves into state when state
// carries it and is given back otherwise.
func NewRecovered(w *Wallet, t *Transfer, state TransferState, isNew bool, fb *FeeBasis) Recovered {
	if inc, ok := state.Included(); (!ok || inc.FeeBasis != fb) && fb != nil {
		fb.Give()
	}
	return Recovered{Wallet: w, Transfer: t, State: state, IsNew: isNew}
}

func (r Recovered) giveFeeBasis() {
	if inc, ok := r.State.Included(); ok && inc.FeeBasis != nil {
		inc.FeeBasis.Give()
	}
}

// Release gives back every reference the Recovered owns.
func (r Recovered) Release() {
	r.giveFeeBasis()
	r.Transfer.Give()
	r.Wallet.Give()
}

// ManagerHandler implements the chain-specific half of a WalletManager.
type ManagerHandler interface {
	// AddressSchemes lists the supported schemes, the default first.
	AddressSchemes() []AddressScheme

	CreateEngine(m *WalletManager) (Engine, error)
	CreateWallet(m *WalletManager, currency Currency) (*Wallet, error)

	Sign(m *WalletManager, w *Wallet, t *Transfer, seed []byte) error
	EstimateFeeBasis(ctx context.Context, m *WalletManager, w *Wallet, target *Address, amount Amount, fee NetworkFee, attributes []TransferAttribute) (*FeeBasis, error)

	RecoverTransfer(ctx context.Context, m *WalletManager, bundle TransferBundle) (Recovered, error)
	RecoverTransaction(ctx context.Context, m *WalletManager, bundle TransactionBundle) (Recovered, error)
}

// ConnectorHandler backs WalletConnector for chains that support external
// signing requests.
type ConnectorHandler interface {
	Digest(m *WalletManager, msg []byte, addPrefix bool) ([]byte, error)
	Sign(m *WalletManager, digest []byte, seed []byte) ([]byte, error)
	CreateTransactionFromArguments(m *WalletManager, arguments map[string]string) (serialization []byte, signed bool, err error)
	CreateTransactionFromSerialization(m *WalletManager, data []byte) (serialization []byte, signed bool, err error)
}

// SweeperHandler classifies whether a private key can be swept into a wallet.
type SweeperHandler interface {
	Validate(m *WalletManager, w *Wallet, key string) SweeperStatus
}

// Handlers is the capability bundle of one network type. Connector and
// Sweeper are optional.
type Handlers struct {
	Type      NetworkType
	Account   AccountHandler
	Address   AddressHandler
	FeeBasis  FeeBasisHandler
	Transfer  TransferHandler
	Wallet    WalletHandler
	Manager   ManagerHandler
	Connector ConnectorHandler
	Sweeper   SweeperHandler
}

func (h *Handlers) validate() error {
	switch {
	case !h.Type.IsValid():
		return fmt.Errorf("%w: %s", ErrUnsupportedNetwork, h.Type)
	case h.Account == nil, h.Address == nil, h.FeeBasis == nil,
		h.Transfer == nil, h.Wallet == nil, h.Manager == nil:
		return fmt.Errorf("incomplete handler bundle for %s", h.Type)
	}
	return nil
}

// Registry maps each network type to its handler bundle. It is built once at
// startup and never mutated afterwards.
type Registry struct {
	bundles [numberOfNetworkTypes]*Handlers
}

// NewRegistry builds a registry from the given bundles. Registering the same
// network type twice or an incomplete bundle is an error.
func NewRegistry(bundles ...*Handlers) (*Registry, error) {
	r := &Registry{}
	for _, h := range bundles {
		if err := h.validate(); err != nil {
			return nil, err
		}

		if r.bundles[h.Type] != nil {
			return nil, fmt.Errorf("duplicate handler bundle for %s", h.Type)
		}

		r.bundles[h.Type] = h
	}
	return r, nil
}

// Lookup returns the bundle for t. An unregistered type matches both
// ErrUnsupportedNetwork and ErrNotImplemented.
func (r *Registry) Lookup(t NetworkType) (*Handlers, error) {
	if !t.IsValid() || r.bundles[t] == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedNetwork, t, ErrNotImplemented)
	}
	return r.bundles[t], nil
}

// Types returns the registered network types in tag order.
func (r *Registry) Types() []NetworkType {
	var types []NetworkType
	for i, h := range r.bundles {
		if h != nil {
			types = append(types, NetworkType(i))
		}
	}
	return types
}

// ParseAddress parses s as an address of network type t.
func (r *Registry) ParseAddress(t NetworkType, s string) (*Address, error) {
	h, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	return h.Address.Parse(s)
}
