// Package btc implements the walletkit handlers of Bitcoin. Transfers are
// backed by whole transactions; the account owns every output paying one of
// its derived keys and every input signed by one.
package btc

import (
	"errors"
	"fmt"

	"github.com/gabapcia/walletkit/internal/pkg/hdkey"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// GapLimit is the number of keys derived on each branch of the account.
const GapLimit = 20

// Branches of the account key.
const (
	BranchReceive uint32 = 0
	BranchChange  uint32 = 1
)

var (
	// ErrWrongKey is returned when a seed does not derive the account.
	ErrWrongKey = errors.New("seed does not derive the account")

	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownOutput is returned when signing an input whose previous
	// output is not held by the wallet.
	ErrUnknownOutput = errors.New("previous output unknown")
)

// KeyPath locates a key under the account key.
type KeyPath struct {
	Branch uint32
	Index  uint32
}

// Key is the account material of Bitcoin: the BIP-44 account public key
// and the first GapLimit keys of each branch.
type Key struct {
	XPub string

	public  map[KeyPath]*btcec.PublicKey
	scripts map[string]KeyPath
	hashes  map[string]KeyPath
}

func newKey(xpub *hdkeychain.ExtendedKey, params *chaincfg.Params) (*Key, error) {
	k := &Key{
		XPub:    xpub.String(),
		public:  make(map[KeyPath]*btcec.PublicKey, 2*GapLimit),
		scripts: make(map[string]KeyPath, 4*GapLimit),
		hashes:  make(map[string]KeyPath, 2*GapLimit),
	}

	for _, branch := range []uint32{BranchReceive, BranchChange} {
		for i := range uint32(GapLimit) {
			child, err := hdkey.DeriveChildren(xpub, branch, i)
			if err != nil {
				return nil, err
			}

			pub, err := child.ECPubKey()
			if err != nil {
				return nil, err
			}

			path := KeyPath{Branch: branch, Index: i}
			hash := btcutil.Hash160(pub.SerializeCompressed())
			k.public[path] = pub
			k.hashes[string(hash)] = path

			for _, scheme := range []walletkit.AddressScheme{walletkit.AddressSchemeBTCLegacy, walletkit.AddressSchemeBTCSegwit} {
				addr, err := encodeAddress(hash, scheme, params)
				if err != nil {
					return nil, err
				}

				script, err := txscript.PayToAddrScript(addr)
				if err != nil {
					return nil, err
				}
				k.scripts[string(script)] = path
			}
		}
	}

	return k, nil
}

// OwnsScript reports whether pkScript pays one of the account's keys.
func (k *Key) OwnsScript(pkScript []byte) (KeyPath, bool) {
	path, ok := k.scripts[string(pkScript)]
	return path, ok
}

// ownsPublicKey reports whether the serialized public key is one of the
// account's keys.
func (k *Key) ownsPublicKey(pub []byte) (KeyPath, bool) {
	path, ok := k.hashes[string(btcutil.Hash160(pub))]
	return path, ok
}

func (k *Key) address(path KeyPath, scheme walletkit.AddressScheme, params *chaincfg.Params) (btcutil.Address, error) {
	return encodeAddress(btcutil.Hash160(k.public[path].SerializeCompressed()), scheme, params)
}

func encodeAddress(hash []byte, scheme walletkit.AddressScheme, params *chaincfg.Params) (btcutil.Address, error) {
	switch scheme {
	case walletkit.AddressSchemeBTCLegacy:
		return btcutil.NewAddressPubKeyHash(hash, params)
	case walletkit.AddressSchemeBTCSegwit:
		return btcutil.NewAddressWitnessPubKeyHash(hash, params)
	}
	return nil, walletkit.ErrUnsupportedAddressScheme
}

// Chain bundles the handlers of one Bitcoin network.
type Chain struct {
	params *chaincfg.Params

	account  account
	address  address
	feeBasis feeBasis
	transfer transfer
	wallet   wallet
	manager  manager
	sweeper  sweeper
}

// New returns the handlers of the network described by params.
func New(params *chaincfg.Params) *Chain {
	c := &Chain{params: params}
	c.account.c, c.address.c, c.feeBasis.c, c.transfer.c = c, c, c, c
	c.wallet.c, c.manager.c, c.sweeper.c = c, c, c
	return c
}

func (c *Chain) Params() *chaincfg.Params { return c.params }

// DerivationPath is the BIP-44 path of the account key.
func (c *Chain) DerivationPath() string {
	return fmt.Sprintf("m/44'/%d'/0'", c.params.HDCoinType)
}

// Handlers returns the handler bundle to register.
func (c *Chain) Handlers() *walletkit.Handlers {
	return &walletkit.Handlers{
		Type:     walletkit.NetworkTypeBTC,
		Account:  &c.account,
		Address:  &c.address,
		FeeBasis: &c.feeBasis,
		Transfer: &c.transfer,
		Wallet:   &c.wallet,
		Manager:  &c.manager,
		Sweeper:  &c.sweeper,
	}
}

// NewAddress wraps a decoded address.
func (c *Chain) NewAddress(a btcutil.Address) *walletkit.Address {
	return walletkit.NewAddress(walletkit.NetworkTypeBTC, &c.address, a)
}

func addressOf(a *walletkit.Address) btcutil.Address {
	return a.Native().(btcutil.Address)
}

func (c *Chain) accountKey(seed []byte) (*hdkeychain.ExtendedKey, error) {
	return hdkey.Derive(seed, c.params, c.DerivationPath())
}

func accountKey(m *walletkit.WalletManager) *Key {
	k, _ := m.Account().Key(walletkit.NetworkTypeBTC)
	return k.(*Key)
}

type account struct{ c *Chain }

func (a *account) DeriveKey(seed []byte) (any, error) {
	priv, err := a.c.accountKey(seed)
	if err != nil {
		return nil, err
	}

	xpub, err := priv.Neuter()
	if err != nil {
		return nil, err
	}
	return newKey(xpub, a.c.params)
}

// Address returns the first receive address in scheme.
func (a *account) Address(key any, scheme walletkit.AddressScheme) (*walletkit.Address, error) {
	addr, err := key.(*Key).address(KeyPath{Branch: BranchReceive}, scheme, a.c.params)
	if err != nil {
		return nil, err
	}
	return a.c.NewAddress(addr), nil
}

func (a *account) HasAddress(key any, addr *walletkit.Address) bool {
	script, err := txscript.PayToAddrScript(addressOf(addr))
	if err != nil {
		return false
	}
	_, ok := key.(*Key).OwnsScript(script)
	return ok
}

// Addresses lists the legacy and segwit address of every derived key,
// receive branch first.
func (a *account) Addresses(key any) []string {
	k := key.(*Key)

	addresses := make([]string, 0, 4*GapLimit)
	for _, branch := range []uint32{BranchReceive, BranchChange} {
		for i := range uint32(GapLimit) {
			for _, scheme := range []walletkit.AddressScheme{walletkit.AddressSchemeBTCLegacy, walletkit.AddressSchemeBTCSegwit} {
				addr, _ := k.address(KeyPath{Branch: branch, Index: i}, scheme, a.c.params)
				addresses = append(addresses, addr.EncodeAddress())
			}
		}
	}
	return addresses
}

type address struct{ c *Chain }

func (h *address) Parse(s string) (*walletkit.Address, error) {
	a, err := btcutil.DecodeAddress(s, h.c.params)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", walletkit.ErrInvalidAddress, s, err)
	}
	if !a.IsForNet(h.c.params) {
		return nil, fmt.Errorf("%w: %q is not a %s address", walletkit.ErrInvalidAddress, s, h.c.params.Name)
	}
	return h.c.NewAddress(a), nil
}

func (h *address) String(a *walletkit.Address) string {
	return addressOf(a).EncodeAddress()
}

func (h *address) Equal(a, b *walletkit.Address) bool {
	return addressOf(a).EncodeAddress() == addressOf(b).EncodeAddress()
}
