package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hex is a JSON-RPC block quantity such as "0x1a", or one of the block tags.
type Hex string

// Block tags accepted wherever a Hex block number is.
const (
	Earliest Hex = "earliest"
	Latest   Hex = "latest"
	Pending  Hex = "pending"
)

// HexFromUint64 encodes n without leading zeros, "0x0" for zero.
func HexFromUint64(n uint64) Hex {
	return Hex("0x" + strconv.FormatUint(n, 16))
}

// HexFromString validates s and returns it as a Hex.
func HexFromString(s string) (Hex, error) {
	h := Hex(s)
	if h.IsTag() {
		return h, nil
	}

	if _, err := h.Uint64(); err != nil {
		return "", err
	}
	return h, nil
}

// IsTag reports whether h is a block tag rather than a number.
func (h Hex) IsTag() bool {
	return h == Earliest || h == Latest || h == Pending
}

// Uint64 decodes h. Tags do not decode.
func (h Hex) Uint64() (uint64, error) {
	s := string(h)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, fmt.Errorf("hex quantity %q must start with 0x", s)
	}

	n, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex quantity %q: %w", s, err)
	}
	return n, nil
}

// Add returns h+n. An undecodable h counts as zero.
func (h Hex) Add(n uint64) Hex {
	current, _ := h.Uint64()
	return HexFromUint64(current + n)
}

func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	v, err := HexFromString(s)
	if err != nil {
		return err
	}

	*h = v
	return nil
}
