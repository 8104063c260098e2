package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quotes-scraper/config"
	"quotes-scraper/logger"
)

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the raw document at url.
	// Any failure, including a non-2xx status or a timeout, is a *TransportError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options configures a transport
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration // Minimum gap between two requests
}

// TransportError reports a failed fetch
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may go away on a later attempt
func (e *TransportError) Retryable() bool {
	if errors.Is(e.Err, context.Canceled) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// statusError builds the error for a response outside the 2xx range
func statusError(url string, status int) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: status,
		Err:        errors.New(http.StatusText(status)),
	}
}

// NewFromConfig builds the configured transport wrapped with retries
func NewFromConfig(cfg config.TransportConfig, delay time.Duration, log logger.Logger) (Fetcher, error) {
	opts := Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Delay:     delay,
	}

	var f Fetcher
	switch cfg.Kind {
	case config.TransportColly, "":
		f = NewCollyFetcher(opts)
	case config.TransportResty:
		f = NewRestyFetcher(opts)
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}

	return NewRetrying(f, cfg.Retries, log), nil
}
