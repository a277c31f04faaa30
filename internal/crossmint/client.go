// Package crossmint is a thin client for the Crossmint minting API. The
// gateway only proxies two calls (collection and template creation) and
// treats the upstream payloads as opaque JSON: validation happens at the
// handler, and the upstream status code and body are forwarded verbatim.
package crossmint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiVersion = "2022-06-09"

// Client calls the Crossmint REST API with a fixed API key.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New returns a client for the given base URL ("https://www.crossmint.com"
// for production, "https://staging.crossmint.com" for testing).
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c != nil && c.APIKey != "" }

// CreateCollection creates an NFT collection. The returned status and body
// are the upstream response, whatever it was.
func (c *Client) CreateCollection(ctx context.Context, payload any) (int, json.RawMessage, error) {
	return c.post(ctx, fmt.Sprintf("%s/api/%s/collections", c.BaseURL, apiVersion), payload)
}

// CreateTemplate creates a token template inside an existing collection.
func (c *Client) CreateTemplate(ctx context.Context, collectionID string, payload any) (int, json.RawMessage, error) {
	return c.post(ctx, fmt.Sprintf("%s/api/%s/collections/%s/templates", c.BaseURL, apiVersion, collectionID), payload)
}

func (c *Client) post(ctx context.Context, url string, payload any) (int, json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	if !json.Valid(data) {
		data = nil
	}
	return resp.StatusCode, data, nil
}
