package aade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// SubscriptionKeyHeader carries the API subscription key.
const SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

const defaultTimeout = 30 * time.Second

var afmPattern = regexp.MustCompile(`^\d{9}$`)

// Client queries AADE endpoints.
type Client struct {
	baseURL string
	key     string
	httpc   *http.Client
}

// NewClient creates a client for the given API base URL. The
// subscription key may be empty for endpoints that do not require one.
func NewClient(baseURL, subscriptionKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("aade: base url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     subscriptionKey,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// VATInfo looks up registry information for a Greek tax number (AFM).
func (c *Client) VATInfo(ctx context.Context, afm string) (any, error) {
	if !afmPattern.MatchString(afm) {
		return nil, fmt.Errorf("aade: tax number %q is not nine digits", afm)
	}
	return c.getJSON(ctx, "/vat/"+afm, nil)
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (any, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("aade: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set(SubscriptionKeyHeader, c.key)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aade: query endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("aade: endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("aade: decode response: %w", err)
	}
	return result, nil
}
