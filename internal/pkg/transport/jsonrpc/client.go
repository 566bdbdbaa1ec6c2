// Package jsonrpc is a JSON-RPC 2.0 client over HTTP, used to talk to
// Ethereum nodes.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

var (
	// ErrProviderReturnedError matches every error object returned by the node.
	ErrProviderReturnedError = errors.New("provider error")

	// ErrUnexpectedStatus is returned when the node answers with a non-2xx
	// status and no JSON-RPC body.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Error is the error object of a JSON-RPC response.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: [%d] - %s", ErrProviderReturnedError, e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrProviderReturnedError
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Error   *Error          `json:"error"`
	Result  json.RawMessage `json:"result"`
}

// Client sends JSON-RPC requests to a single provider.
type Client interface {
	// Fetch calls method and returns its raw result.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)

	// Call calls method and decodes its result into result.
	Call(ctx context.Context, result any, method string, params ...any) error
}

type client struct {
	providerEndpoint string
	httpClient       *http.Client
}

var _ Client = (*client)(nil)

// NewClient returns a Client posting to providerEndpoint with httpClient.
func NewClient(httpClient *http.Client, providerEndpoint string) *client {
	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
	}
}

func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("%w: [%d] %s", ErrUnexpectedStatus, res.StatusCode, bytes.TrimSpace(data))
		}
		return nil, err
	}

	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

func (c *client) Call(ctx context.Context, result any, method string, params ...any) error {
	data, err := c.Fetch(ctx, method, params...)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}
