package eurlex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public CELLAR SPARQL endpoint.
const DefaultEndpoint = "https://publications.europa.eu/webapi/rdf/sparql"

const defaultTimeout = 30 * time.Second

// Client executes SPARQL queries against the CELLAR endpoint.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// NewClient creates a client. Empty endpoint and zero timeout use the
// defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the configured SPARQL endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// Select runs a SPARQL SELECT and returns the decoded
// application/sparql-results+json document.
func (c *Client) Select(ctx context.Context, query string) (map[string]any, error) {
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("eurlex: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eurlex: query endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("eurlex: endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("eurlex: decode results: %w", err)
	}
	return result, nil
}
