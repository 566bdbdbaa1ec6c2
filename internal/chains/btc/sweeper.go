package btc

import (
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

type sweeper struct{ c *Chain }

// Validate classifies a WIF private key as a sweep source for w. Keys of
// the account itself cannot be swept into it.
func (h *sweeper) Validate(m *walletkit.WalletManager, w *walletkit.Wallet, key string) walletkit.SweeperStatus {
	if key == "" {
		return walletkit.SweeperStatusInvalidArguments
	}
	if !w.Currency().Equal(m.Network().Currency()) {
		return walletkit.SweeperStatusUnsupportedCurrency
	}

	wif, err := btcutil.DecodeWIF(key)
	if err != nil || !wif.IsForNet(h.c.params) {
		return walletkit.SweeperStatusInvalidKey
	}

	account := accountKey(m)
	hash := btcutil.Hash160(wif.SerializePubKey())
	for _, scheme := range []walletkit.AddressScheme{walletkit.AddressSchemeBTCLegacy, walletkit.AddressSchemeBTCSegwit} {
		addr, err := encodeAddress(hash, scheme, h.c.params)
		if err != nil {
			return walletkit.SweeperStatusInvalidKey
		}

		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return walletkit.SweeperStatusInvalidKey
		}

		if _, ok := account.OwnsScript(script); ok {
			return walletkit.SweeperStatusIllegalOperation
		}
	}

	return walletkit.SweeperStatusSuccess
}
