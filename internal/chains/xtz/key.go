package xtz

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/gabapcia/walletkit/internal/pkg/hdkey"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the SLIP-10 path of the account key.
const DerivationPath = "m/44'/1729'/0'/0'"

var ed25519Curve = []byte("ed25519 seed")

// DeriveKey derives the ed25519 key at path following SLIP-10. Ed25519 only
// supports hardened derivation.
func DeriveKey(seed []byte, path string) (ed25519.PrivateKey, error) {
	indexes, err := hdkey.ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, chain := slip10(ed25519Curve, seed)
	for _, index := range indexes {
		if index < hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: %q has a non-hardened index", hdkey.ErrInvalidPath, path)
		}

		data := make([]byte, 0, 37)
		data = append(append(data, 0), key...)
		data = binary.BigEndian.AppendUint32(data, index)
		key, chain = slip10(chain, data)
	}

	return ed25519.NewKeyFromSeed(key), nil
}

func slip10(key, data []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// EncodePublicKey returns the edpk form of pub.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return encodeCheck(prefixPublicKey, pub)
}
