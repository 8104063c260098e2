package fetcher

import (
	"context"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(opts Options) *CollyFetcher {
	// Enrichment and retries request the same URL more than once
	options := []colly.CollectorOption{colly.AllowURLRevisit()}
	if opts.UserAgent != "" {
		options = append(options, colly.UserAgent(opts.UserAgent))
	}
	c := colly.NewCollector(options...)

	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	if opts.Delay > 0 {
		// Limit rules live in the shared backend, so clones honour them too
		_ = c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       opts.Delay,
		})
	}

	return &CollyFetcher{
		collector: c,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	// A clone per request keeps callbacks from leaking between fetches
	c := cf.collector.Clone()
	colly.StdlibContext(ctx)(c)

	var (
		body   []byte
		status int
	)

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	err := c.Visit(url)
	c.Wait()

	if err != nil {
		if status != 0 && (status < 200 || status > 299) {
			return nil, statusError(url, status)
		}
		return nil, &TransportError{URL: url, StatusCode: status, Err: err}
	}

	// status stays 0 if no response callback ran
	if status < 200 || status > 299 {
		return nil, statusError(url, status)
	}

	return body, nil
}
