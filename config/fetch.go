package config

import (
	"errors"

	"github.com/mejor-tasa/tasas/fetch"
)

const (
	DefaultRetries        = 3
	DefaultTimeoutSeconds = 30
)

var (
	ErrInvalidRetries = errors.New("invalid retry count")
	ErrInvalidTimeout = errors.New("invalid fetch timeout")
)

// Fetch defines the HTTP fetch configuration
type Fetch struct {
	// The User-Agent header sent with every request
	UserAgent string `toml:"user_agent"`

	// The number of fetch attempts per document
	Retries int `toml:"retries"`

	// The per-request timeout, in seconds
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// DefaultFetchConfig returns the default fetch configuration
func DefaultFetchConfig() *Fetch {
	return &Fetch{
		UserAgent:      fetch.DefaultUserAgent,
		Retries:        DefaultRetries,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// ValidateFetchConfig validates the fetch configuration
func ValidateFetchConfig(config *Fetch) error {
	if config == nil || config.Retries <= 0 {
		return ErrInvalidRetries
	}

	if config.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}
