// internal/common/http/client.go

// Package http is the shared HTTP client for outbound REST integrations
// such as the CRM lead sync. Every request carries a hard timeout so a
// hanging integration cannot stall a submission hook.
package http

import (
	"context"
	"net/http"
	"time"
)

// Client wraps a timeout-bounded standard client.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a client that aborts any request running past timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoWithContext binds the request to ctx, letting callers cancel an
// integration call before the client timeout fires.

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
