package fetcher

import (
	"context"
	"errors"
	"time"

	"quotes-scraper/logger"

	"github.com/cenkalti/backoff/v4"
)

// Retrying wraps a Fetcher and retries transient failures with exponential backoff
type Retrying struct {
	next     Fetcher
	attempts int
	initial  time.Duration
	log      logger.Logger
}

// NewRetrying wraps next so each URL is tried at most attempts times.
// With attempts <= 1 it returns next unchanged.
func NewRetrying(next Fetcher, attempts int, log logger.Logger) Fetcher {
	if attempts <= 1 {
		return next
	}
	return &Retrying{
		next:     next,
		attempts: attempts,
		initial:  500 * time.Millisecond,
		log:      log,
	}
}

// Fetch implements the Fetcher interface
func (r *Retrying) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		b, err := r.next.Fetch(ctx, url)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && !te.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		r.log.Warn("Fetch failed, retrying",
			logger.String("url", url),
			logger.Duration("wait", wait),
			logger.Err(err),
		)
	}

	err := backoff.RetryNotify(op, r.policy(ctx), notify)
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			err = &TransportError{URL: url, Err: err}
		}
		return nil, err
	}

	return body, nil
}

func (r *Retrying) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initial
	b.MaxInterval = 10 * r.initial
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.attempts-1)), ctx)
}
