// Package blockset implements the walletkit.Client interface on top of a
// Blockset-compatible REST indexer. It serves every chain family: UTXO
// managers read raw transactions, account and plugin managers read transfers.
package blockset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus is returned when the indexer answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

const (
	defaultPageSize = 100

	// addressesPerRequest bounds the address list of a single query string.
	addressesPerRequest = 50
)

type client struct {
	http     *retryablehttp.Client
	endpoint string
	token    string
	pageSize int
}

var _ walletkit.Client = (*client)(nil)

// NewClient returns a client for the indexer at endpoint. token is sent as a
// bearer token when not empty.
func NewClient(httpClient *retryablehttp.Client, endpoint, token string) *client {
	return &client{
		http:     httpClient,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    token,
		pageSize: defaultPageSize,
	}
}

func (c *client) url(path string, query url.Values) string {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends a request to rawURL and decodes the JSON answer into out, when
// out is not nil and the answer has a body.
func (c *client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s %s: [%d] %s", ErrUnexpectedStatus, method, req.URL.Path, res.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// blockchainResponse is the /blockchains/{id} resource.
type blockchainResponse struct {
	ID                string  `json:"id"`
	BlockHeight       *uint64 `json:"block_height"`
	VerifiedBlockHash string  `json:"verified_block_hash"`
}

// GetBlockNumber implements walletkit.Client.
func (c *client) GetBlockNumber(ctx context.Context, network *walletkit.Network) (uint64, string, error) {
	var chain blockchainResponse
	if err := c.do(ctx, http.MethodGet, c.url("/blockchains/"+url.PathEscape(network.UIDS()), nil), nil, &chain); err != nil {
		return 0, "", err
	}

	if chain.BlockHeight == nil {
		return 0, "", fmt.Errorf("blockchain %s has no block height", network.UIDS())
	}
	return *chain.BlockHeight, chain.VerifiedBlockHash, nil
}
