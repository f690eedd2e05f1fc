package normattiva

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Normattiva portal.
const DefaultBaseURL = "https://www.normattiva.it"

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 2 << 20 // portal pages are large; cap what we cache
)

// Act is the fetched representation of one piece of legislation.
type Act struct {
	URN        string `json:"urn"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// Client fetches acts from the Normattiva portal.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client. Empty base URL and zero timeout use the
// defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// FetchAct resolves a URN-NIR identifier through the portal's N2Ls
// resolver and returns the response payload.
func (c *Client) FetchAct(ctx context.Context, urn string) (Act, error) {
	if err := ValidateURN(urn); err != nil {
		return Act{}, err
	}

	target := fmt.Sprintf("%s/uri-res/N2Ls?%s", c.baseURL, url.Values{"urn": {urn}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Act{}, fmt.Errorf("normattiva: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Act{}, fmt.Errorf("normattiva: fetch act: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Act{}, fmt.Errorf("normattiva: portal returned %d for %s", resp.StatusCode, urn)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Act{}, fmt.Errorf("normattiva: read body: %w", err)
	}
	return Act{
		URN:        urn,
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
