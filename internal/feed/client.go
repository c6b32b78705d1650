package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fluvi/retail-monitor/internal/analytics"
	"github.com/fluvi/retail-monitor/internal/config"
	"github.com/fluvi/retail-monitor/internal/pkg/httpretry"
)

// Client fetches snapshots from the legacy HTTP endpoints.
type Client struct {
	customersURL string
	ordersURL    string
	httpClient   httpretry.HTTPDoer
}

// NewClient creates an HTTP feed client with retrying transport.
func NewClient(cfg config.FeedConfig) *Client {
	return &Client{
		customersURL: cfg.CustomersURL,
		ordersURL:    cfg.OrdersURL,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// fetchJSON executes a GET against the given endpoint and decodes the body
// into dst. A fetch failure surfaces to the caller; the engine never
// synthesizes a partial result from a failed snapshot.
func (c *Client) fetchJSON(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("feed error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// FetchCustomers returns the full current customer snapshot.
func (c *Client) FetchCustomers(ctx context.Context) ([]analytics.RawCustomer, error) {
	var records []customerRecord
	if err := c.fetchJSON(ctx, c.customersURL, &records); err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	customers := make([]analytics.RawCustomer, 0, len(records))
	for _, r := range records {
		customers = append(customers, r.toRaw())
	}
	return customers, nil
}

// FetchOrders returns the full current order snapshot.
func (c *Client) FetchOrders(ctx context.Context) ([]analytics.RawOrder, error) {
	var records []orderRecord
	if err := c.fetchJSON(ctx, c.ordersURL, &records); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	orders := make([]analytics.RawOrder, 0, len(records))
	for _, r := range records {
		orders = append(orders, r.toRaw())
	}
	return orders, nil
}
