package eth

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

type connector struct{ c *Chain }

// Digest hashes msg with Keccak-256, behind the EIP-191 personal message
// prefix when addPrefix is set.
func (h *connector) Digest(_ *walletkit.WalletManager, msg []byte, addPrefix bool) ([]byte, error) {
	if addPrefix {
		return accounts.TextHash(msg), nil
	}
	return crypto.Keccak256(msg), nil
}

// Sign returns the 65-byte [R || S || V] signature of digest.
func (h *connector) Sign(m *walletkit.WalletManager, digest []byte, seed []byte) ([]byte, error) {
	if len(digest) != crypto.DigestLength {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", crypto.DigestLength, len(digest))
	}

	priv, err := signingKey(m, seed)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(digest, priv)
}

// CreateTransactionFromArguments builds an unsigned legacy transaction from
// "to", "value", "gas", "gasPrice", "nonce" and "data".
func (h *connector) CreateTransactionFromArguments(_ *walletkit.WalletManager, arguments map[string]string) ([]byte, bool, error) {
	tx := &types.LegacyTx{Value: new(big.Int), GasPrice: new(big.Int), Gas: DefaultGasLimit}

	if s, ok := arguments["to"]; ok {
		if !common.IsHexAddress(s) {
			return nil, false, fmt.Errorf("%w: %q", walletkit.ErrInvalidAddress, s)
		}
		to := common.HexToAddress(s)
		tx.To = &to
	}

	for key, dst := range map[string]*big.Int{"value": tx.Value, "gasPrice": tx.GasPrice} {
		if s, ok := arguments[key]; ok {
			if _, ok := dst.SetString(s, 0); !ok {
				return nil, false, fmt.Errorf("invalid %s %q", key, s)
			}
		}
	}

	for key, dst := range map[string]*uint64{"gas": &tx.Gas, "nonce": &tx.Nonce} {
		if s, ok := arguments[key]; ok {
			v, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return nil, false, fmt.Errorf("invalid %s %q: %w", key, s, err)
			}
			*dst = v
		}
	}

	if s, ok := arguments["data"]; ok && s != "" {
		data, err := hexutil.Decode(s)
		if err != nil {
			return nil, false, fmt.Errorf("invalid data: %w", err)
		}
		tx.Data = data
	}

	serialization, err := types.NewTx(tx).MarshalBinary()
	return serialization, false, err
}

// CreateTransactionFromSerialization decodes a transaction in its network
// encoding and reports whether it carries a signature.
func (h *connector) CreateTransactionFromSerialization(_ *walletkit.WalletManager, data []byte) ([]byte, bool, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(data); err != nil {
		return nil, false, err
	}

	_, r, s := tx.RawSignatureValues()
	signed := (r != nil && r.Sign() != 0) || (s != nil && s.Sign() != 0)
	return data, signed, nil
}
