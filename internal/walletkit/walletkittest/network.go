package walletkittest

import (
	"time"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// PaperKey is a valid BIP-39 phrase for tests.
const PaperKey = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// Currencies of the networks built by NewNetwork.
var (
	Native = walletkit.Currency{UIDS: "test:native", Code: "tst", Name: "Test", Type: walletkit.CurrencyTypeNative}
	Token  = walletkit.Currency{UIDS: "test:token", Code: "tok", Name: "Token", Type: walletkit.CurrencyTypeERC20, Issuer: "0xt0k"}

	NativeUnit = walletkit.Unit{Currency: Native, UIDS: "test:native:base", Name: "test base", Symbol: "t", Decimals: 0}
	TokenUnit  = walletkit.Unit{Currency: Token, UIDS: "test:token:base", Name: "token base", Symbol: "k", Decimals: 0}
)

// NewNetwork returns a network of typ carrying Native and Token, a single
// fee of 1 base unit per cost unit, and 6 confirmations until final. It
// panics on error.
func NewNetwork(typ walletkit.NetworkType, uids string) *walletkit.Network {
	n, err := walletkit.NewNetwork(walletkit.NetworkConfig{
		UIDS:     uids,
		Name:     "test " + uids,
		Type:     typ,
		Currency: Native,
		Associations: []walletkit.CurrencyAssociation{
			{Currency: Native, BaseUnit: NativeUnit, DefaultUnit: NativeUnit, Units: []walletkit.Unit{NativeUnit}},
			{Currency: Token, BaseUnit: TokenUnit, DefaultUnit: TokenUnit, Units: []walletkit.Unit{TokenUnit}},
		},
		Fees: []walletkit.NetworkFee{
			{ConfirmationTime: time.Minute, PricePerCostFactor: walletkit.NewAmountFromUint64(NativeUnit, 1)},
		},
		ConfirmationsUntilFinal: 6,
		EarliestBlock:           100,
		Height:                  1000,
	})
	if err != nil {
		panic("walletkittest: " + err.Error())
	}
	return n
}

// Fixture wires a Chain, a registry, an account and a recorder together.
type Fixture struct {
	Chain    *Chain
	Registry *walletkit.Registry
	Account  *walletkit.Account
	Recorder *Recorder
}

// NewFixture builds a Fixture for a chain of typ. It panics on error.
func NewFixture(typ walletkit.NetworkType) *Fixture {
	chain := NewChain(typ)

	registry, err := walletkit.NewRegistry(chain.Handlers())
	if err != nil {
		panic("walletkittest: " + err.Error())
	}

	account, err := walletkit.NewAccount(registry, PaperKey, time.Unix(1700000000, 0), "test-account")
	if err != nil {
		panic("walletkittest: " + err.Error())
	}

	return &Fixture{
		Chain:    chain,
		Registry: registry,
		Account:  account,
		Recorder: &Recorder{},
	}
}

// Address returns the account's own address on the chain.
func (f *Fixture) Address() string {
	key, _ := f.Account.Key(f.Chain.Type)
	return key.(string)
}

// ManagerConfig returns a config for a manager of the fixture on n.
func (f *Fixture) ManagerConfig(n *walletkit.Network, client walletkit.Client) walletkit.ManagerConfig {
	return walletkit.ManagerConfig{
		Registry:      f.Registry,
		Listener:      f.Recorder,
		Client:        client,
		Account:       f.Account,
		Network:       n,
		AddressScheme: walletkit.AddressSchemeGENDefault,
		Path:          "test",
	}
}

// Bundle returns an included transfer bundle of amount base units of the
// native currency with the given fee.
func Bundle(hash, from, to, amount, fee string) walletkit.TransferBundle {
	return walletkit.TransferBundle{
		Status:         walletkit.TransferStatusIncluded,
		Hash:           hash,
		UIDS:           "uids-" + hash,
		From:           from,
		To:             to,
		Amount:         amount,
		Currency:       Native.Code,
		Fee:            fee,
		BlockHeight:    500,
		BlockTimestamp: time.Unix(1700000500, 0).UTC(),
	}
}
