// Package hdkey derives BIP-32 keys from BIP-39 seeds along textual paths
// such as "m/44'/60'/0'/0/0".
package hdkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrInvalidPath is returned for paths that do not start with "m/" or carry
// a malformed index.
var ErrInvalidPath = errors.New("invalid derivation path")

// ParsePath returns the child indexes of path, hardened ones offset by
// hdkeychain.HardenedKeyStart.
func ParsePath(path string) ([]uint32, error) {
	if path == "m" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "m/") {
		return nil, fmt.Errorf("%w: %q must start with m/", ErrInvalidPath, path)
	}

	parts := strings.Split(path[2:], "/")
	indexes := make([]uint32, 0, len(parts))
	for _, p := range parts {
		hardened := strings.HasSuffix(p, "'")
		p = strings.TrimSuffix(p, "'")

		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}

		index := uint32(n)
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

// Derive walks path from the master key of seed.
func Derive(seed []byte, params *chaincfg.Params, path string) (*hdkeychain.ExtendedKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, err
	}
	return DeriveChildren(key, indexes...)
}

// DeriveChildren walks indexes from key.
func DeriveChildren(key *hdkeychain.ExtendedKey, indexes ...uint32) (*hdkeychain.ExtendedKey, error) {
	var err error
	for _, i := range indexes {
		if key, err = key.Derive(i); err != nil {
			return nil, err
		}
	}
	return key, nil
}
