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

// logResponse is a log entry returned by eth_getLogs.
type logResponse struct {
	Address          common.Address `json:"address"`
	Topics           []common.Hash  `json:"topics"`
	Data             hexutil.Bytes  `json:"data"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	BlockHash        common.Hash    `json:"blockHash"`
	TransactionHash  common.Hash    `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	LogIndex         hexutil.Uint64 `json:"logIndex"`
	Removed          bool           `json:"removed"`
}

// logFilter is the filter object taken by eth_getLogs.
type logFilter struct {
	FromBlock types.Hex `json:"fromBlock"`
	ToBlock   types.Hex `json:"toBlock"`
	Topics    []any     `json:"topics"`
}

func (c *client) getLogs(ctx context.Context, filter logFilter) ([]logResponse, error) {
	var logs []logResponse
	return logs, c.call(ctx, &logs, "eth_getLogs", filter)
}

// transferLogs returns the ERC-20 Transfer logs of [begin, end) sent from or
// to any watched address, each once.
func (c *client) transferLogs(ctx context.Context, watched addressSet, begin, end uint64) ([]logResponse, error) {
	topics := make([]common.Hash, 0, len(watched))
	for a := range watched {
		topics = append(topics, common.BytesToHash(a.Bytes()))
	}

	from, to := types.HexFromUint64(begin), types.HexFromUint64(end-1)
	filters := []logFilter{
		{FromBlock: from, ToBlock: to, Topics: []any{eth.TransferEventTopic, topics}},
		{FromBlock: from, ToBlock: to, Topics: []any{eth.TransferEventTopic, nil, topics}},
	}

	type logID struct {
		hash  common.Hash
		index uint64
	}
	seen := types.NewSet[logID]()

	var logs []logResponse
	for _, filter := range filters {
		found, err := c.getLogs(ctx, filter)
		if err != nil {
			return nil, err
		}

		for _, l := range found {
			id := logID{hash: l.TransactionHash, index: uint64(l.LogIndex)}
			if l.Removed || len(l.Topics) != 3 || !seen.Insert(id) {
				continue
			}
			logs = append(logs, l)
		}
	}

	return logs, nil
}

// tokenTransfers turns the Transfer logs of currencies the network knows
// into bundles. Logs of other contracts are dropped.
func (c *client) tokenTransfers(ctx context.Context, network *walletkit.Network, watched addressSet, begin, end uint64) ([]walletkit.TransferBundle, error) {
	logs, err := c.transferLogs(ctx, watched, begin, end)
	if err != nil {
		return nil, err
	}

	timestamps := make(map[uint64]time.Time)
	nonces := make(map[common.Hash]uint64)

	var bundles []walletkit.TransferBundle
	for _, l := range logs {
		currency, ok := network.CurrencyByIssuer(l.Address.Hex())
		if !ok {
			continue
		}

		height := uint64(l.BlockNumber)
		timestamp, ok := timestamps[height]
		if !ok {
			block, err := c.getHeaderByNumber(ctx, types.HexFromUint64(height))
			if err != nil {
				return nil, err
			}
			timestamp = time.Unix(int64(block.Timestamp), 0).UTC()
			timestamps[height] = timestamp
		}

		from := common.BytesToAddress(l.Topics[1].Bytes())
		to := common.BytesToAddress(l.Topics[2].Bytes())

		attributes := map[string]string{eth.AttributeStatus: "1"}
		if watched.Has(from) {
			nonce, ok := nonces[l.TransactionHash]
			if !ok {
				var tx transactionResponse
				if err := c.call(ctx, &tx, "eth_getTransactionByHash", l.TransactionHash); err != nil {
					return nil, err
				}
				nonce = uint64(tx.Nonce)
				nonces[l.TransactionHash] = nonce
			}
			attributes[eth.AttributeNonce] = strconv.FormatUint(nonce, 10)
		}

		bundles = append(bundles, walletkit.TransferBundle{
			Status:                walletkit.TransferStatusIncluded,
			Hash:                  l.TransactionHash.Hex(),
			Identifier:            l.TransactionHash.Hex(),
			UIDS:                  fmt.Sprintf("%s:%s:%d", network.UIDS(), strings.ToLower(l.TransactionHash.Hex()), uint64(l.LogIndex)),
			From:                  from.Hex(),
			To:                    to.Hex(),
			Amount:                new(big.Int).SetBytes(l.Data).String(),
			Currency:              currency.UIDS,
			Fee:                   "0",
			TransferIndex:         uint64(l.LogIndex),
			BlockTimestamp:        timestamp,
			BlockHeight:           height,
			BlockConfirmations:    confirmations(network, height),
			BlockTransactionIndex: uint64(l.TransactionIndex),
			BlockHash:             l.BlockHash.Hex(),
			Attributes:            attributes,
		})
	}

	return bundles, nil
}
