package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
)

// Client reads the public price list. One request per Fetch; no retries.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		url = constants.DefaultPriceFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		URL: url,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("price feed http %d", e.StatusCode)
	}
	return fmt.Sprintf("price feed http %d: %s", e.StatusCode, b)
}

// Entries returns the raw feed rows.
func (c *Client) Entries(ctx context.Context) ([]catalog.PriceEntry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out []catalog.PriceEntry
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode price feed response: %w", err)
	}
	return out, nil
}

// GetPrices fetches the feed and builds a price table, dropping unusable rows.
func (c *Client) GetPrices(ctx context.Context) (catalog.PriceTable, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewPriceTable(entries), nil
}
