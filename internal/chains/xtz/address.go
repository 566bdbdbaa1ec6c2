package xtz

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

// Base58 prefixes of the encodings used by the plugin.
var (
	prefixTZ1       = []byte{6, 161, 159}
	prefixTZ2       = []byte{6, 161, 161}
	prefixTZ3       = []byte{6, 161, 164}
	prefixKT1       = []byte{2, 90, 121}
	prefixBlock     = []byte{1, 52}
	prefixOperation = []byte{5, 116}
	prefixPublicKey = []byte{13, 15, 37, 217}
)

var (
	ErrInvalidChecksum = errors.New("invalid base58 checksum")
	ErrInvalidPrefix   = errors.New("unexpected base58 prefix")
)

func encodeCheck(prefix, payload []byte) string {
	b := make([]byte, 0, len(prefix)+len(payload)+4)
	b = append(append(b, prefix...), payload...)
	return base58.Encode(append(b, chainhash.DoubleHashB(b)[:4]...))
}

// decodeCheck returns the size bytes following prefix in s.
func decodeCheck(s string, prefix []byte, size int) ([]byte, error) {
	b := base58.Decode(s)
	if len(b) != len(prefix)+size+4 {
		return nil, fmt.Errorf("%w: %q has %d bytes", ErrInvalidPrefix, s, len(b))
	}

	payload, checksum := b[:len(b)-4], b[len(b)-4:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:4], checksum) {
		return nil, ErrInvalidChecksum
	}
	if !bytes.HasPrefix(payload, prefix) {
		return nil, ErrInvalidPrefix
	}
	return payload[len(prefix):], nil
}

type addressKind uint8

const (
	kindTZ1 addressKind = iota
	kindTZ2
	kindTZ3
	kindKT1
)

var addressPrefixes = [...][]byte{
	kindTZ1: prefixTZ1,
	kindTZ2: prefixTZ2,
	kindTZ3: prefixTZ3,
	kindKT1: prefixKT1,
}

// Address is an implicit (tz1, tz2, tz3) or originated (KT1) account.
type Address struct {
	kind addressKind
	hash [20]byte
}

// AddressFromPublicKey returns the tz1 address of an ed25519 public key.
func AddressFromPublicKey(pub []byte) Address {
	h, _ := blake2b.New(20, nil)
	h.Write(pub)

	a := Address{kind: kindTZ1}
	copy(a.hash[:], h.Sum(nil))
	return a
}

// ParseAddress decodes a tz1, tz2, tz3 or KT1 address.
func ParseAddress(s string) (Address, error) {
	for kind, prefix := range addressPrefixes {
		hash, err := decodeCheck(s, prefix, 20)
		if err != nil {
			continue
		}

		a := Address{kind: addressKind(kind)}
		copy(a.hash[:], hash)
		return a, nil
	}
	return Address{}, fmt.Errorf("%w: %q is not a tezos address", ErrInvalidPrefix, s)
}

func (a Address) String() string {
	return encodeCheck(addressPrefixes[a.kind], a.hash[:])
}

// IsImplicit reports whether the address is controlled by a key.
func (a Address) IsImplicit() bool {
	return a.kind != kindKT1
}

// forgePublicKeyHash encodes an implicit address as a 21-byte public key hash.
func (a Address) forgePublicKeyHash() []byte {
	return append([]byte{byte(a.kind)}, a.hash[:]...)
}

// forgeContract encodes the address as a 22-byte contract id.
func (a Address) forgeContract() []byte {
	if a.IsImplicit() {
		return append([]byte{0}, a.forgePublicKeyHash()...)
	}
	b := append([]byte{1}, a.hash[:]...)
	return append(b, 0)
}
