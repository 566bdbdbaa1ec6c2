package walletkit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TransferBundle is a transfer as reported by a client adapter for account
// and plugin chains.
type TransferBundle struct {
	Status                TransferStatus    `json:"status"`
	Hash                  string            `json:"hash" validate:"required"`
	Identifier            string            `json:"identifier"`
	UIDS                  string            `json:"uids" validate:"required"`
	From                  string            `json:"from"`
	To                    string            `json:"to"`
	Amount                string            `json:"amount" validate:"required,base_units"`
	Currency              string            `json:"currency" validate:"required"`
	Fee                   string            `json:"fee,omitempty" validate:"omitempty,base_units"`
	TransferIndex         uint64            `json:"transfer_index"`
	BlockTimestamp        time.Time         `json:"block_timestamp"`
	BlockHeight           uint64            `json:"block_height"`
	BlockConfirmations    uint64            `json:"block_confirmations"`
	BlockTransactionIndex uint64            `json:"block_transaction_index"`
	BlockHash             string            `json:"block_hash,omitempty"`
	Attributes            map[string]string `json:"attributes,omitempty"`
}

// Included returns the confirmation metadata carried by the bundle.
func (b TransferBundle) Included(feeBasis *FeeBasis, success bool, errorMessage string) TransferIncluded {
	return TransferIncluded{
		BlockNumber:      b.BlockHeight,
		TransactionIndex: b.BlockTransactionIndex,
		Timestamp:        b.BlockTimestamp,
		FeeBasis:         feeBasis,
		Success:          success,
		Error:            errorMessage,
	}
}

// TransactionBundle is a raw chain transaction as reported by a client
// adapter for UTXO chains.
type TransactionBundle struct {
	Status        TransferStatus `json:"status"`
	Serialization []byte         `json:"serialization" validate:"required"`
	Timestamp     time.Time      `json:"timestamp"`
	BlockHeight   uint64         `json:"block_height"`
}

// ID identifies the bundle in a BundleStore.
func (b TransactionBundle) ID() string {
	sum := sha256.Sum256(b.Serialization)
	return hex.EncodeToString(sum[:])
}

// FeeEstimateRequest describes the transaction a fee estimate is asked for.
type FeeEstimateRequest struct {
	Serialization []byte
	Hash          string
	Source        string
	Target        string
	Amount        string
}

// FeeEstimate is a client adapter's answer to a FeeEstimateRequest. Attributes
// carry chain-specific results (e.g. storage used, or a counter).
type FeeEstimate struct {
	CostUnits  uint64
	Attributes map[string]string
}

// Client is the data-source abstraction a manager's engine queries. Every
// call blocks until the remote answers or ctx is done; the engine runs them
// on its own goroutines.
type Client interface {
	// GetBlockNumber returns the chain tip and, if known, its hash.
	GetBlockNumber(ctx context.Context, network *Network) (uint64, string, error)

	// GetTransactions returns raw transactions touching any of addresses in
	// blocks [begin, end).
	GetTransactions(ctx context.Context, network *Network, addresses []string, begin, end uint64) ([]TransactionBundle, error)

	// GetTransfers returns transfers touching any of addresses in blocks [begin, end).
	GetTransfers(ctx context.Context, network *Network, addresses []string, begin, end uint64) ([]TransferBundle, error)

	// SubmitTransaction broadcasts a signed serialization and returns its hash.
	SubmitTransaction(ctx context.Context, network *Network, identifier string, serialization []byte) (string, error)

	EstimateTransactionFee(ctx context.Context, network *Network, request FeeEstimateRequest) (FeeEstimate, error)
}
