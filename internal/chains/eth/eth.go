// Package eth implements the walletkit handlers of Ethereum. Ether moves in
// transactions, ERC-20 tokens in Transfer logs, and value moved by contract
// calls in exchange records; each is the basis of its transfers.
package eth

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/gabapcia/walletkit/internal/pkg/hdkey"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DerivationPath is the BIP-44 path of the account's primary address.
const DerivationPath = "m/44'/60'/0'/0/0"

// Gas limits of the default fee basis of ether and token wallets.
const (
	DefaultGasLimit      = 21_000
	DefaultTokenGasLimit = 92_000
)

var (
	// ErrNoTransaction is returned when a transfer found on chain is asked
	// for the transaction only transfers created by the wallet carry.
	ErrNoTransaction = errors.New("transfer has no originating transaction")

	// ErrWrongKey is returned when a seed does not derive the account.
	ErrWrongKey = errors.New("seed does not derive the account")
)

// Key is the account material of Ethereum: its primary address.
type Key struct {
	Address common.Address
}

// Chain bundles the handlers of one Ethereum network.
type Chain struct {
	chainID *big.Int

	account   account
	address   address
	feeBasis  feeBasis
	transfer  transfer
	wallet    wallet
	manager   manager
	connector connector
}

// New returns the handlers of the network identified by chainID (1 for mainnet).
func New(chainID int64) *Chain {
	c := &Chain{chainID: big.NewInt(chainID)}
	c.account.c, c.address.c, c.feeBasis.c, c.transfer.c = c, c, c, c
	c.wallet.c, c.manager.c, c.connector.c = c, c, c
	return c
}

// ChainID returns the EIP-155 chain id transactions are signed for.
func (c *Chain) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// Handlers returns the handler bundle to register.
func (c *Chain) Handlers() *walletkit.Handlers {
	return &walletkit.Handlers{
		Type:      walletkit.NetworkTypeETH,
		Account:   &c.account,
		Address:   &c.address,
		FeeBasis:  &c.feeBasis,
		Transfer:  &c.transfer,
		Wallet:    &c.wallet,
		Manager:   &c.manager,
		Connector: &c.connector,
	}
}

func privateKey(seed []byte) (*ecdsa.PrivateKey, error) {
	key, err := hdkey.Derive(seed, &chaincfg.MainNetParams, DerivationPath)
	if err != nil {
		return nil, err
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(priv.Serialize())
}

// signingKey derives the private key of seed and checks it belongs to m's account.
func signingKey(m *walletkit.WalletManager, seed []byte) (*ecdsa.PrivateKey, error) {
	priv, err := privateKey(seed)
	if err != nil {
		return nil, err
	}
	if crypto.PubkeyToAddress(priv.PublicKey) != accountKey(m).Address {
		return nil, ErrWrongKey
	}
	return priv, nil
}

func accountKey(m *walletkit.WalletManager) Key {
	k, _ := m.Account().Key(walletkit.NetworkTypeETH)
	return k.(Key)
}

type account struct{ c *Chain }

func (a *account) DeriveKey(seed []byte) (any, error) {
	priv, err := privateKey(seed)
	if err != nil {
		return nil, err
	}
	return Key{Address: crypto.PubkeyToAddress(priv.PublicKey)}, nil
}

func (a *account) Address(key any, scheme walletkit.AddressScheme) (*walletkit.Address, error) {
	if scheme != walletkit.AddressSchemeETHDefault {
		return nil, walletkit.ErrUnsupportedAddressScheme
	}
	return a.c.NewAddress(key.(Key).Address), nil
}

func (a *account) HasAddress(key any, addr *walletkit.Address) bool {
	return addressOf(addr) == key.(Key).Address
}

func (a *account) Addresses(key any) []string {
	return []string{key.(Key).Address.Hex()}
}
