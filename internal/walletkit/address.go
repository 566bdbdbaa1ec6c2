package walletkit

import "github.com/gabapcia/walletkit/internal/pkg/refcount"

// AddressScheme selects the address format a manager hands out.
type AddressScheme uint8

const (
	AddressSchemeBTCLegacy AddressScheme = iota
	AddressSchemeBTCSegwit
	AddressSchemeETHDefault
	AddressSchemeGENDefault
)

func (s AddressScheme) String() string {
	switch s {
	case AddressSchemeBTCLegacy:
		return "btc-legacy"
	case AddressSchemeBTCSegwit:
		return "btc-segwit"
	case AddressSchemeETHDefault:
		return "eth-default"
	case AddressSchemeGENDefault:
		return "gen-default"
	}
	return "unknown"
}

// Address is a chain-tagged address. The native value is owned by the chain
// handler that created it.
type Address struct {
	ref     refcount.Counter
	typ     NetworkType
	handler AddressHandler
	native  any
}

// NewAddress wraps a chain-native address value.
func NewAddress(typ NetworkType, handler AddressHandler, native any) *Address {
	a := &Address{
		typ:     typ,
		handler: handler,
		native:  native,
	}
	a.ref.Init("address", nil)
	return a
}

func (a *Address) Take() *Address { a.ref.Retain(); return a }
func (a *Address) Give()          { a.ref.Release() }

func (a *Address) Type() NetworkType { return a.typ }

// Native returns the chain-native value. Chain handlers coerce it to their
// own type; a mismatch is a programming error and panics.
func (a *Address) Native() any { return a.native }

func (a *Address) String() string {
	return a.handler.String(a)
}

// Equal compares two addresses with the chain's equality.
func (a *Address) Equal(b *Address) bool {
	switch {
	case a == b:
		return true
	case a == nil, b == nil, a.typ != b.typ:
		return false
	}
	return a.handler.Equal(a, b)
}
