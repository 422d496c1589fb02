package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/port"
)

// Client fetches payloads over HTTP(S)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Ensure Client implements port.Fetcher
var _ port.Fetcher = (*Client)(nil)

// Config contains optional client configuration
type Config struct {
	// Timeout bounds an entire request including the body read. Zero
	// means no overall limit; long transfers are stopped via context.
	Timeout time.Duration

	// UserAgent overrides the default request User-Agent
	UserAgent string
}

// NewClient creates an HTTP fetcher tuned for large streamed bodies
func NewClient(cfg *Config) *Client {
	transport := &http.Transport{
		// Connection pooling
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		// HTTP/2 support
		ForceAttemptHTTP2: true,

		// Disable compression for binary files (saves CPU and keeps
		// Content-Length meaningful for progress reporting)
		DisableCompression: true,

		// Response header timeout (not total download timeout)
		ResponseHeaderTimeout: 30 * time.Second,
	}

	var timeout time.Duration
	userAgent := "bulkfetch"
	if cfg != nil {
		timeout = cfg.Timeout
		if cfg.UserAgent != "" {
			userAgent = cfg.UserAgent
		}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch opens a streamed read of the payload at url. The returned body is
// owned by the caller; cancelling ctx aborts the request and any blocked
// body read.
func (c *Client) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, domain.NewTransportError(rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, domain.NewTransportError(rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, domain.NewTransportError(rawURL,
			fmt.Errorf("%w: %s", domain.ErrUnexpectedStatus, resp.Status))
	}

	return resp.Body, resp.ContentLength, nil
}
