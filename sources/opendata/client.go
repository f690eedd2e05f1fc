package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client queries a CKAN action API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a client for a CKAN catalog. The API key is
// optional; public catalogs accept anonymous reads.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("opendata: base url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured catalog base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ckanEnvelope is the standard CKAN action response wrapper.
type ckanEnvelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   map[string]any  `json:"error"`
}

// PackageSearch searches datasets matching q.
func (c *Client) PackageSearch(ctx context.Context, q string, rows int) (any, error) {
	if rows <= 0 {
		rows = 10
	}
	return c.action(ctx, "package_search", url.Values{
		"q":    {q},
		"rows": {strconv.Itoa(rows)},
	})
}

// PackageShow fetches one dataset by name or id.
func (c *Client) PackageShow(ctx context.Context, id string) (any, error) {
	return c.action(ctx, "package_show", url.Values{"id": {id}})
}

func (c *Client) action(ctx context.Context, name string, query url.Values) (any, error) {
	target := fmt.Sprintf("%s/api/3/action/%s?%s", c.baseURL, name, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("opendata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opendata: query catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("opendata: catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope ckanEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("opendata: decode response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("opendata: action %s failed: %v", name, envelope.Error)
	}

	var result any
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, fmt.Errorf("opendata: decode result: %w", err)
	}
	return result, nil
}
