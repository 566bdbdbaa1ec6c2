package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gabapcia/walletkit/internal/chains/eth"
	"github.com/gabapcia/walletkit/internal/pkg/types"
	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type (
	// transactionResponse is a transaction object returned by the Ethereum JSON-RPC API.
	transactionResponse struct {
		Hash             common.Hash     `json:"hash"`
		Nonce            hexutil.Uint64  `json:"nonce"`
		From             common.Address  `json:"from"`
		To               *common.Address `json:"to"`
		Value            *hexutil.Big    `json:"value"`
		Gas              hexutil.Uint64  `json:"gas"`
		GasPrice         *hexutil.Big    `json:"gasPrice"`
		TransactionIndex hexutil.Uint64  `json:"transactionIndex"`
	}

	// headerResponse is the part of a block every request returns.
	headerResponse struct {
		Hash      common.Hash    `json:"hash"`
		Number    hexutil.Uint64 `json:"number"`
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}

	// blockResponse is a block requested with full transactions.
	blockResponse struct {
		headerResponse
		Transactions []transactionResponse `json:"transactions"`
	}

	// receiptResponse is the part of a transaction receipt fees are derived from.
	receiptResponse struct {
		Status            hexutil.Uint64  `json:"status"`
		GasUsed           hexutil.Uint64  `json:"gasUsed"`
		EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
		ContractAddress   *common.Address `json:"contractAddress"`
	}
)

// addressSet matches addresses regardless of their checksum casing.
type addressSet = types.Set[common.Address]

func newAddressSet(addresses []string) addressSet {
	set := types.NewSet[common.Address]()
	for _, a := range addresses {
		if common.IsHexAddress(a) {
			set.Add(common.HexToAddress(a))
		}
	}
	return set
}

// getBlockByNumber retrieves a block and its transactions by its number.
func (c *client) getBlockByNumber(ctx context.Context, blockNumber types.Hex) (blockResponse, error) {
	var block blockResponse
	return block, c.call(ctx, &block, "eth_getBlockByNumber", blockNumber, true)
}

// getHeaderByNumber retrieves a block without its transactions. blockNumber
// is a hex quantity or a tag such as "latest".
func (c *client) getHeaderByNumber(ctx context.Context, blockNumber types.Hex) (headerResponse, error) {
	var header headerResponse
	return header, c.call(ctx, &header, "eth_getBlockByNumber", blockNumber, false)
}

func (c *client) getTransactionReceipt(ctx context.Context, hash common.Hash) (receiptResponse, error) {
	var receipt receiptResponse
	return receipt, c.call(ctx, &receipt, "eth_getTransactionReceipt", hash)
}

// confirmations counts the blocks on top of height, including its own.
func confirmations(network *walletkit.Network, height uint64) uint64 {
	tip := network.Height()
	if tip < height {
		return 0
	}
	return tip - height + 1
}

// GetTransfers implements walletkit.Client. Ether transfers come from the
// transactions of every block in [begin, end); token transfers from the
// ERC-20 Transfer logs of the same range.
func (c *client) GetTransfers(ctx context.Context, network *walletkit.Network, addresses []string, begin, end uint64) ([]walletkit.TransferBundle, error) {
	if begin >= end {
		return nil, nil
	}

	watched := newAddressSet(addresses)
	if len(watched) == 0 {
		return nil, nil
	}

	bundles, err := c.etherTransfers(ctx, network, watched, begin, end)
	if err != nil {
		return nil, err
	}

	tokens, err := c.tokenTransfers(ctx, network, watched, begin, end)
	if err != nil {
		return nil, err
	}

	bundles = append(bundles, tokens...)
	walletkit.SortTransferBundles(bundles)
	return bundles, nil
}

// etherTransfers walks the blocks of [begin, end) one at a time.
func (c *client) etherTransfers(ctx context.Context, network *walletkit.Network, watched addressSet, begin, end uint64) ([]walletkit.TransferBundle, error) {
	var bundles []walletkit.TransferBundle

	for height := begin; height < end; height++ {
		block, err := c.getBlockByNumber(ctx, types.HexFromUint64(height))
		if err != nil {
			return nil, err
		}

		for _, tx := range block.Transactions {
			if !watched.Has(tx.From) && (tx.To == nil || !watched.Has(*tx.To)) {
				continue
			}

			receipt, err := c.getTransactionReceipt(ctx, tx.Hash)
			if err != nil {
				return nil, err
			}

			bundles = append(bundles, etherBundle(network, block, tx, receipt))
		}
	}

	return bundles, nil
}

func etherBundle(network *walletkit.Network, block blockResponse, tx transactionResponse, receipt receiptResponse) walletkit.TransferBundle {
	to := tx.To
	if to == nil {
		to = receipt.ContractAddress
	}

	price := tx.GasPrice
	if receipt.EffectiveGasPrice != nil {
		price = receipt.EffectiveGasPrice
	}

	fee := "0"
	gasPrice := "0"
	if price != nil {
		gasPrice = price.ToInt().String()
		fee = new(big.Int).Mul(price.ToInt(), new(big.Int).SetUint64(uint64(receipt.GasUsed))).String()
	}

	value := "0"
	if tx.Value != nil {
		value = tx.Value.ToInt().String()
	}

	bundle := walletkit.TransferBundle{
		Status:                walletkit.TransferStatusIncluded,
		Hash:                  tx.Hash.Hex(),
		Identifier:            tx.Hash.Hex(),
		UIDS:                  fmt.Sprintf("%s:%s", network.UIDS(), strings.ToLower(tx.Hash.Hex())),
		From:                  tx.From.Hex(),
		Amount:                value,
		Currency:              network.Currency().UIDS,
		Fee:                   fee,
		BlockTimestamp:        time.Unix(int64(block.Timestamp), 0).UTC(),
		BlockHeight:           uint64(block.Number),
		BlockConfirmations:    confirmations(network, uint64(block.Number)),
		BlockTransactionIndex: uint64(tx.TransactionIndex),
		BlockHash:             block.Hash.Hex(),
		Attributes: map[string]string{
			eth.AttributeGasLimit: strconv.FormatUint(uint64(tx.Gas), 10),
			eth.AttributeGasUsed:  strconv.FormatUint(uint64(receipt.GasUsed), 10),
			eth.AttributeGasPrice: gasPrice,
			eth.AttributeNonce:    strconv.FormatUint(uint64(tx.Nonce), 10),
			eth.AttributeStatus:   strconv.FormatUint(uint64(receipt.Status), 10),
		},
	}
	if to != nil {
		bundle.To = to.Hex()
	}
	return bundle
}
