package xtz

import (
	"crypto/ed25519"
	"errors"

	"golang.org/x/crypto/blake2b"
)

const (
	tagReveal      byte = 0x6b
	tagTransaction byte = 0x6c

	tagEd25519PublicKey byte = 0x00

	watermarkGeneric byte = 0x03
)

// Limits of the reveal that precedes the first outgoing transaction of an
// account.
const (
	revealFee          = 1420
	revealGasLimit     = 10600
	revealStorageLimit = 0
)

var ErrInvalidBranch = errors.New("invalid branch block hash")

// Reveal publishes the public key of an implicit account.
type Reveal struct {
	Fee          int64
	Counter      int64
	GasLimit     int64
	StorageLimit int64
	PublicKey    ed25519.PublicKey
}

// Operation is a transaction, possibly preceded by a reveal, forged against
// a branch.
type Operation struct {
	Branch       [32]byte
	Source       Address
	Reveal       *Reveal
	Fee          int64
	Counter      int64
	GasLimit     int64
	StorageLimit int64
	Amount       int64
	Destination  Address
}

// parseBranch decodes the block hash an operation is forged against.
func parseBranch(s string) ([32]byte, error) {
	var branch [32]byte

	b, err := decodeCheck(s, prefixBlock, 32)
	if err != nil {
		return branch, errors.Join(ErrInvalidBranch, err)
	}

	copy(branch[:], b)
	return branch, nil
}

// Forge returns the binary encoding of op.
func (op *Operation) Forge() []byte {
	b := append([]byte(nil), op.Branch[:]...)

	if r := op.Reveal; r != nil {
		b = append(b, tagReveal)
		b = append(b, op.Source.forgePublicKeyHash()...)
		b = appendZarith(b, r.Fee)
		b = appendZarith(b, r.Counter)
		b = appendZarith(b, r.GasLimit)
		b = appendZarith(b, r.StorageLimit)
		b = append(b, tagEd25519PublicKey)
		b = append(b, r.PublicKey...)
	}

	b = append(b, tagTransaction)
	b = append(b, op.Source.forgePublicKeyHash()...)
	b = appendZarith(b, op.Fee)
	b = appendZarith(b, op.Counter)
	b = appendZarith(b, op.GasLimit)
	b = appendZarith(b, op.StorageLimit)
	b = appendZarith(b, op.Amount)
	b = append(b, op.Destination.forgeContract()...)

	// no parameters
	return append(b, 0x00)
}

// appendZarith appends the little-endian base-128 encoding of a natural.
func appendZarith(b []byte, v int64) []byte {
	n := uint64(max(v, 0))
	for n >= 0x80 {
		b = append(b, byte(n)|0x80)
		n >>= 7
	}
	return append(b, byte(n))
}

// SignForged signs forged bytes with the generic watermark and returns the
// signed operation and its hash.
func SignForged(forged []byte, key ed25519.PrivateKey) ([]byte, string) {
	digest := blake2b.Sum256(append([]byte{watermarkGeneric}, forged...))
	signed := append(append([]byte(nil), forged...), ed25519.Sign(key, digest[:])...)
	return signed, OperationHash(signed)
}

// OperationHash returns the base58 hash of a signed operation.
func OperationHash(signed []byte) string {
	sum := blake2b.Sum256(signed)
	return encodeCheck(prefixOperation, sum[:])
}
