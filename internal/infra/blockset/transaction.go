package blockset

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/types"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

// feeAddress is the pseudo target of the transfer carrying a transaction fee.
const feeAddress = "__fee__"

type (
	amountResponse struct {
		CurrencyID string `json:"currency_id"`
		Amount     string `json:"amount"`
	}

	transferResponse struct {
		TransferID  string         `json:"transfer_id"`
		FromAddress string         `json:"from_address"`
		ToAddress   string         `json:"to_address"`
		Index       uint64         `json:"index"`
		Amount      amountResponse `json:"amount"`
	}

	transactionResponse struct {
		TransactionID string            `json:"transaction_id"`
		Identifier    string            `json:"identifier"`
		Hash          string            `json:"hash"`
		Status        string            `json:"status"`
		Timestamp     *time.Time        `json:"timestamp"`
		BlockHeight   *uint64           `json:"block_height"`
		BlockHash     string            `json:"block_hash"`
		Confirmations uint64            `json:"confirmations"`
		Index         uint64            `json:"index"`
		Raw           []byte            `json:"raw"`
		Meta          map[string]string `json:"meta"`
		Embedded      struct {
			Transfers []transferResponse `json:"transfers"`
		} `json:"_embedded"`
	}

	transactionsPage struct {
		Embedded struct {
			Transactions []transactionResponse `json:"transactions"`
		} `json:"_embedded"`
		Links struct {
			Next *struct {
				Href string `json:"href"`
			} `json:"next"`
		} `json:"_links"`
	}
)

func (t transactionResponse) height() uint64 {
	if t.BlockHeight == nil {
		return 0
	}
	return *t.BlockHeight
}

func (t transactionResponse) timestamp() time.Time {
	if t.Timestamp == nil {
		return time.Time{}
	}
	return t.Timestamp.UTC()
}

// getTransactions pages through the transactions touching addresses in
// blocks [begin, end). A transaction touching several chunks of addresses is
// returned once.
func (c *client) getTransactions(ctx context.Context, network *walletkit.Network, addresses []string, begin, end uint64, includeRaw bool) ([]transactionResponse, error) {
	seen := types.NewSet[string]()

	var transactions []transactionResponse
	for chunk := range slices.Chunk(addresses, addressesPerRequest) {
		query := url.Values{
			"blockchain_id":     {network.UIDS()},
			"address":           chunk,
			"start_height":      {strconv.FormatUint(begin, 10)},
			"end_height":        {strconv.FormatUint(end, 10)},
			"include_raw":       {strconv.FormatBool(includeRaw)},
			"include_transfers": {strconv.FormatBool(!includeRaw)},
			"max_page_size":     {strconv.Itoa(c.pageSize)},
		}

		next := c.url("/transactions", query)
		for next != "" {
			var page transactionsPage
			if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
				return nil, err
			}

			for _, tx := range page.Embedded.Transactions {
				if !seen.Insert(tx.TransactionID) {
					continue
				}
				transactions = append(transactions, tx)
			}

			next = ""
			if page.Links.Next != nil {
				next = page.Links.Next.Href
			}
		}
	}

	return transactions, nil
}

// GetTransactions implements walletkit.Client for UTXO chains.
func (c *client) GetTransactions(ctx context.Context, network *walletkit.Network, addresses []string, begin, end uint64) ([]walletkit.TransactionBundle, error) {
	transactions, err := c.getTransactions(ctx, network, addresses, begin, end, true)
	if err != nil {
		return nil, err
	}

	bundles := make([]walletkit.TransactionBundle, 0, len(transactions))
	for _, tx := range transactions {
		bundle := walletkit.TransactionBundle{
			Status:        walletkit.ParseTransferStatus(tx.Status),
			Serialization: tx.Raw,
			Timestamp:     tx.timestamp(),
			BlockHeight:   tx.height(),
		}

		if err := validator.Validate(bundle); err != nil {
			logger.Warn(ctx, "skipping transaction without serialization", "transaction.id", tx.TransactionID, "error", err)
			continue
		}
		bundles = append(bundles, bundle)
	}

	walletkit.SortTransactionBundles(bundles)
	return bundles, nil
}

// GetTransfers implements walletkit.Client for account and plugin chains.
// Fee transfers are folded into the transfers paid by the same address.
func (c *client) GetTransfers(ctx context.Context, network *walletkit.Network, addresses []string, begin, end uint64) ([]walletkit.TransferBundle, error) {
	transactions, err := c.getTransactions(ctx, network, addresses, begin, end, false)
	if err != nil {
		return nil, err
	}

	var bundles []walletkit.TransferBundle
	for _, tx := range transactions {
		fees := make(map[string]string)
		for _, tr := range tx.Embedded.Transfers {
			if tr.ToAddress == feeAddress {
				fees[tr.FromAddress] = tr.Amount.Amount
			}
		}

		for _, tr := range tx.Embedded.Transfers {
			if tr.ToAddress == feeAddress {
				continue
			}

			bundle := walletkit.TransferBundle{
				Status:                walletkit.ParseTransferStatus(tx.Status),
				Hash:                  tx.Hash,
				Identifier:            tx.Identifier,
				UIDS:                  tr.TransferID,
				From:                  tr.FromAddress,
				To:                    tr.ToAddress,
				Amount:                tr.Amount.Amount,
				Currency:              tr.Amount.CurrencyID,
				Fee:                   fees[tr.FromAddress],
				TransferIndex:         tr.Index,
				BlockTimestamp:        tx.timestamp(),
				BlockHeight:           tx.height(),
				BlockConfirmations:    tx.Confirmations,
				BlockTransactionIndex: tx.Index,
				BlockHash:             tx.BlockHash,
				Attributes:            tx.Meta,
			}

			if err := validator.Validate(bundle); err != nil {
				logger.Warn(ctx, "skipping malformed transfer", "transfer.id", tr.TransferID, "error", err)
				continue
			}
			bundles = append(bundles, bundle)
		}
	}

	walletkit.SortTransferBundles(bundles)
	return bundles, nil
}
