package walletkit

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Currency identifies an asset on a network.
type Currency struct {
	UIDS   string `json:"uids"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Issuer string `json:"issuer,omitempty"`
}

// Currency types.
const (
	CurrencyTypeNative = "native"
	CurrencyTypeERC20  = "erc20"
)

// IsNative reports whether the currency is the network's own asset.
func (c Currency) IsNative() bool {
	return c.Issuer == ""
}

// Equal compares currencies by UIDS.
func (c Currency) Equal(o Currency) bool {
	return c.UIDS == o.UIDS
}

// Unit is a denomination of a currency with a number of decimals relative to
// the base unit.
type Unit struct {
	Currency Currency `json:"currency"`
	UIDS     string   `json:"uids"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Decimals uint8    `json:"decimals"`
}

// IsCompatible reports whether both units denominate the same currency.
func (u Unit) IsCompatible(o Unit) bool {
	return u.Currency.Equal(o.Currency)
}

// Amount is a signed quantity of base units of a currency.
type Amount struct {
	unit     Unit
	value    uint256.Int
	negative bool
}

// NewAmount returns a non-negative amount of value base units.
func NewAmount(unit Unit, value *uint256.Int) Amount {
	a := Amount{unit: unit}
	if value != nil {
		a.value.Set(value)
	}
	return a
}

// NewAmountFromUint64 returns a non-negative amount of v base units.
func NewAmountFromUint64(unit Unit, v uint64) Amount {
	return NewAmount(unit, uint256.NewInt(v))
}

// NewAmountFromBig converts a big integer; it fails when |v| needs more than 256 bits.
func NewAmountFromBig(unit Unit, v *big.Int) (Amount, error) {
	if v == nil {
		return Amount{unit: unit}, nil
	}

	mag, overflow := uint256.FromBig(new(big.Int).Abs(v))
	if overflow {
		return Amount{}, ErrAmountOverflow
	}

	a := NewAmount(unit, mag)
	a.negative = v.Sign() < 0
	return a, nil
}

// ParseAmount parses a base-10 integer of base units, optionally prefixed by '-'.
func ParseAmount(unit Unit, s string) (Amount, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}

	a := NewAmount(unit, v)
	a.negative = negative && !v.IsZero()
	return a, nil
}

// ParseAmountInUnit parses a decimal string ("1.25") expressed in unit and
// returns it in base units.
func ParseAmountInUnit(unit Unit, s string) (Amount, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if len(frac) > int(unit.Decimals) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, unit.Decimals)
	}

	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", int(unit.Decimals)-len(frac)), "0")
	if digits == "" {
		digits = "0"
	}
	if negative {
		digits = "-" + digits
	}

	return ParseAmount(unit, digits)
}

// Unit returns the amount's unit.
func (a Amount) Unit() Unit {
	return a.unit
}

// Currency returns the amount's currency.
func (a Amount) Currency() Currency {
	return a.unit.Currency
}

// Value returns a copy of the magnitude.
func (a Amount) Value() *uint256.Int {
	return new(uint256.Int).Set(&a.value)
}

// BigInt returns the signed value as a big integer.
func (a Amount) BigInt() *big.Int {
	v := a.value.ToBig()
	if a.negative {
		v.Neg(v)
	}
	return v
}

// Uint64 returns the magnitude when it fits in 64 bits.
func (a Amount) Uint64() (uint64, bool) {
	return a.value.Uint64(), a.value.IsUint64()
}

func (a Amount) IsNegative() bool {
	return a.negative
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Negate returns -a.
func (a Amount) Negate() Amount {
	if a.IsZero() {
		return a
	}
	a.negative = !a.negative
	return a
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	a.negative = false
	return a
}

// Add returns a + b. Both amounts must share a currency.
func (a Amount) Add(b Amount) (Amount, error) {
	if !a.unit.IsCompatible(b.unit) {
		return Amount{}, ErrAmountIncompatible
	}

	r := Amount{unit: a.unit}
	if a.negative == b.negative {
		if _, overflow := r.value.AddOverflow(&a.value, &b.value); overflow {
			return Amount{}, ErrAmountOverflow
		}
		r.negative = a.negative
	} else if a.value.Cmp(&b.value) >= 0 {
		r.value.Sub(&a.value, &b.value)
		r.negative = a.negative
	} else {
		r.value.Sub(&b.value, &a.value)
		r.negative = b.negative
	}

	if r.value.IsZero() {
		r.negative = false
	}
	return r, nil
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(b.Negate())
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
func (a Amount) Compare(b Amount) (int, error) {
	d, err := a.Sub(b)
	switch {
	case err != nil:
		return 0, err
	case d.IsZero():
		return 0, nil
	case d.negative:
		return -1, nil
	}
	return 1, nil
}

// Equal reports whether both amounts have the same currency and value.
func (a Amount) Equal(b Amount) bool {
	c, err := a.Compare(b)
	return err == nil && c == 0
}

// String formats the amount in base units.
func (a Amount) String() string {
	if a.negative {
		return "-" + a.value.Dec()
	}
	return a.value.Dec()
}

// StringIn formats the amount as a decimal in unit, followed by its symbol.
func (a Amount) StringIn(unit Unit) string {
	digits := a.value.Dec()
	if d := int(unit.Decimals); d > 0 {
		if len(digits) <= d {
			digits = strings.Repeat("0", d-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-d] + "." + digits[len(digits)-d:]
		digits = strings.TrimRight(strings.TrimRight(digits, "0"), ".")
	}

	if a.negative {
		digits = "-" + digits
	}
	return strings.TrimSpace(digits + " " + unit.Symbol)
}
