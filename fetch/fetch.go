package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the aggregator to bank sites
const DefaultUserAgent = "MejorTasa/1.0 (mortgage rate aggregator)"

var ErrRetriesExhausted = errors.New("fetch retries exhausted")

// Result is the raw outcome of a successful document fetch
type Result struct {
	Content     []byte
	ContentType string
	StatusCode  int
}

// Fetcher supplies the raw bytes of a bank's rate-disclosure document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// Client is an HTTP document fetcher with bounded retries and a
// per-attempt timeout
type Client struct {
	client    *http.Client
	logger    *slog.Logger
	headers   map[string]string
	userAgent string
	retries   int
}

// NewClient creates a new fetch client
func NewClient(opts ...Option) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // Fine to ignore
	}

	c := &Client{
		client: &http.Client{
			Timeout:   time.Second * 30,
			Transport: tr,
		},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent: DefaultUserAgent,
		retries:   3,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the document at the given URL, retrying transient
// failures with exponential backoff. The per-attempt timeout is governed
// by the client's HTTP timeout
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	var lastErr error

	backoff := time.Second

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}

			backoff *= 2
		}

		result, err := c.fetchOnce(ctx, url)
		if err == nil {
			return result, nil
		}

		lastErr = err

		c.logger.Warn(
			"fetch attempt failed",
			"url", url,
			"attempt", attempt+1,
			"err", err,
		)
	}

	return nil, fmt.Errorf("%w for %s: %w", ErrRetriesExhausted, url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	for name, value := range c.headers {
		req.Header.Set(name, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	return &Result{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
