package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyFetcher implements the Fetcher interface with a plain HTTP client
type RestyFetcher struct {
	client *resty.Client
	delay  time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewRestyFetcher creates a new RestyFetcher instance
func NewRestyFetcher(opts Options) *RestyFetcher {
	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &RestyFetcher{
		client: client,
		delay:  opts.Delay,
	}
}

// Fetch implements the Fetcher interface
func (rf *RestyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := rf.wait(ctx); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	resp, err := rf.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, statusError(url, resp.StatusCode())
	}

	return resp.Body(), nil
}

// wait blocks until the configured delay since the previous request has passed
func (rf *RestyFetcher) wait(ctx context.Context) error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.delay > 0 && !rf.last.IsZero() {
		if remaining := rf.delay - time.Since(rf.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	rf.last = time.Now()
	return ctx.Err()
}
