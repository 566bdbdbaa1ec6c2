// Package ethereum implements the walletkit.Client interface for
// Ethereum-compatible nodes using a JSON-RPC client.
package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gabapcia/walletkit/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/walletkit/internal/pkg/types"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

// client implements the walletkit.Client interface for Ethereum-based networks.
// It communicates with an Ethereum node via a JSON-RPC client.
type client struct {
	conn jsonrpc.Client // Underlying JSON-RPC client used to interact with the Ethereum node
}

// Ensure client implements the walletkit.Client interface at compile time.
var _ walletkit.Client = (*client)(nil)

// NewClient creates a new Ethereum client adapter using the provided JSON-RPC connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}

// call runs method and decodes its result into out.
func (c *client) call(ctx context.Context, out any, method string, params ...any) error {
	return c.conn.Call(ctx, out, method, params...)
}

// GetBlockNumber implements walletkit.Client. It reads the latest block
// header so that the tip comes with its hash.
func (c *client) GetBlockNumber(ctx context.Context, _ *walletkit.Network) (uint64, string, error) {
	header, err := c.getHeaderByNumber(ctx, types.Latest)
	if err != nil {
		return 0, "", err
	}

	return uint64(header.Number), header.Hash.Hex(), nil
}

// GetTransactions implements walletkit.Client. Ethereum managers sync
// through GetTransfers only.
func (c *client) GetTransactions(context.Context, *walletkit.Network, []string, uint64, uint64) ([]walletkit.TransactionBundle, error) {
	return nil, fmt.Errorf("%w: ethereum reports transfers, not raw transactions", walletkit.ErrNotImplemented)
}

// SubmitTransaction implements walletkit.Client by relaying the signed
// transaction through eth_sendRawTransaction.
func (c *client) SubmitTransaction(ctx context.Context, _ *walletkit.Network, _ string, serialization []byte) (string, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(serialization)); err != nil {
		return "", err
	}

	return hash.Hex(), nil
}

// signingPayload is the EIP-155 signing payload of an unsigned legacy
// transaction, as serialized by the ethereum chain handler.
type signingPayload struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	R, S     uint
}

// callRequest is the transaction object taken by eth_estimateGas.
type callRequest struct {
	From  string        `json:"from,omitempty"`
	To    string        `json:"to,omitempty"`
	Value *hexutil.Big  `json:"value,omitempty"`
	Data  hexutil.Bytes `json:"data,omitempty"`
}

// EstimateTransactionFee implements walletkit.Client. The gas estimate is
// returned as the cost units; pricing is left to the network fees.
func (c *client) EstimateTransactionFee(ctx context.Context, _ *walletkit.Network, request walletkit.FeeEstimateRequest) (walletkit.FeeEstimate, error) {
	call := callRequest{From: request.Source, To: request.Target}

	if len(request.Serialization) > 0 {
		var payload signingPayload
		if err := rlp.DecodeBytes(request.Serialization, &payload); err != nil {
			return walletkit.FeeEstimate{}, fmt.Errorf("decode transaction: %w", err)
		}

		call.Value = (*hexutil.Big)(payload.Value)
		call.Data = payload.Data
		if payload.To != nil {
			call.To = payload.To.Hex()
		}
	} else if request.Amount != "" {
		value, ok := new(big.Int).SetString(request.Amount, 10)
		if !ok {
			return walletkit.FeeEstimate{}, fmt.Errorf("invalid amount %q", request.Amount)
		}
		call.Value = (*hexutil.Big)(value)
	}

	var gas hexutil.Uint64
	if err := c.call(ctx, &gas, "eth_estimateGas", call); err != nil {
		return walletkit.FeeEstimate{}, err
	}

	return walletkit.FeeEstimate{CostUnits: uint64(gas)}, nil
}
