package eth

import (
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
)

// NewAddress wraps addr.
func (c *Chain) NewAddress(addr common.Address) *walletkit.Address {
	return walletkit.NewAddress(walletkit.NetworkTypeETH, &c.address, addr)
}

func addressOf(a *walletkit.Address) common.Address {
	return a.Native().(common.Address)
}

type address struct{ c *Chain }

func (h *address) Parse(s string) (*walletkit.Address, error) {
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("%w: %q", walletkit.ErrInvalidAddress, s)
	}
	return h.c.NewAddress(common.HexToAddress(s)), nil
}

// String returns the EIP-55 checksummed form.
func (h *address) String(a *walletkit.Address) string {
	return addressOf(a).Hex()
}

func (h *address) Equal(a, b *walletkit.Address) bool {
	return addressOf(a) == addressOf(b)
}
