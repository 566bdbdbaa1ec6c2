package eth

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20JSON = `[
	{
		"constant": false,
		"inputs": [
			{"name": "_to", "type": "address"},
			{"name": "_value", "type": "uint256"}
		],
		"name": "transfer",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": true, "name": "to", "type": "address"},
			{"indexed": false, "name": "value", "type": "uint256"}
		],
		"name": "Transfer",
		"type": "event"
	}
]`

// ERC20 is the subset of the ERC-20 ABI wallets use.
var ERC20 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20JSON))
	if err != nil {
		panic("eth: invalid erc20 abi: " + err.Error())
	}
	return parsed
}()

// TransferEventTopic is the first topic of every ERC-20 Transfer log.
var TransferEventTopic = ERC20.Events["Transfer"].ID

// EncodeTokenTransfer returns the call data of transfer(to, value).
func EncodeTokenTransfer(to common.Address, value *big.Int) ([]byte, error) {
	return ERC20.Pack("transfer", to, value)
}

// DecodeTokenTransfer parses the call data of transfer(to, value).
func DecodeTokenTransfer(data []byte) (common.Address, *big.Int, error) {
	method, err := ERC20.MethodById(data)
	if err != nil {
		return common.Address{}, nil, err
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return common.Address{}, nil, err
	}
	return args[0].(common.Address), args[1].(*big.Int), nil
}
