package fetch

import (
	"log/slog"
	"time"
)

type Option func(c *Client)

// WithLogger specifies the logger for the fetch client
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRetries specifies the number of retries after the first attempt.
// Defaults to 3
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
	}
}

// WithTimeout specifies the per-attempt timeout.
// Defaults to 30s
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHeaders specifies extra headers set on every request, after the
// User-Agent. Some bank sites require Accept-Language to serve the
// Spanish rate tables
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithUserAgent overrides the User-Agent header.
// Some bank CDNs reject non-browser agents
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
