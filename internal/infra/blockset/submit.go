package blockset

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// submitRequest is the body of both transaction submissions and fee estimates.
type submitRequest struct {
	BlockchainID  string `json:"blockchain_id"`
	TransactionID string `json:"transaction_id"`
	Data          []byte `json:"data"`
}

type submitResponse struct {
	Hash string `json:"hash"`
}

// SubmitTransaction implements walletkit.Client. The hash is empty when the
// indexer accepted the transaction without echoing it.
func (c *client) SubmitTransaction(ctx context.Context, network *walletkit.Network, identifier string, serialization []byte) (string, error) {
	req := submitRequest{
		BlockchainID:  network.UIDS(),
		TransactionID: identifier,
		Data:          serialization,
	}

	var res submitResponse
	if err := c.do(ctx, http.MethodPost, c.url("/transactions", nil), req, &res); err != nil {
		return "", err
	}
	return res.Hash, nil
}

type estimateResponse struct {
	CostUnits  uint64            `json:"cost_units"`
	Properties map[string]string `json:"properties"`
}

// EstimateTransactionFee implements walletkit.Client. Properties of the
// estimate, such as the gas and storage a Tezos operation consumed, are
// passed through as attributes.
func (c *client) EstimateTransactionFee(ctx context.Context, network *walletkit.Network, request walletkit.FeeEstimateRequest) (walletkit.FeeEstimate, error) {
	req := submitRequest{
		BlockchainID:  network.UIDS(),
		TransactionID: request.Hash,
		Data:          request.Serialization,
	}

	var res estimateResponse
	if err := c.do(ctx, http.MethodPost, c.url("/transactions", url.Values{"estimate_fee": {"true"}}), req, &res); err != nil {
		return walletkit.FeeEstimate{}, err
	}

	return walletkit.FeeEstimate{CostUnits: res.CostUnits, Attributes: res.Properties}, nil
}
