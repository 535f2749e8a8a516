package reqresp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"powledger/blockchain"
)

// ChainPath is where every node serves its full chain
const ChainPath = "/chain"

// Client fetches chains from peers over HTTP
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new peer client
func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

// FetchChain asks the peer at host:port for its full chain. Every failure is
// returned as a *FetchError.
func (c *Client) FetchChain(ctx context.Context, peer string) (*blockchain.ChainResponse, error) {
	url := fmt.Sprintf("http://%s%s", peer, ChainPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Peer: peer, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Peer: peer, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Peer: peer, Err: fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)}
	}

	var payload blockchain.ChainResponse
	body := io.LimitReader(resp.Body, c.config.MaxResponseBytes)
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, &FetchError{Peer: peer, Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
	}

	if payload.Length != len(payload.Chain) {
		return nil, &FetchError{
			Peer: peer,
			Err:  fmt.Errorf("%w: reported %d, got %d blocks", ErrLengthMismatch, payload.Length, len(payload.Chain)),
		}
	}

	return &payload, nil
}
