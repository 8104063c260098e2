package crawler

import (
	"context"
	"errors"
	"net/url"

	"quotes-scraper/fetcher"
	"quotes-scraper/logger"
	"quotes-scraper/models"
	"quotes-scraper/parser"
	"quotes-scraper/slug"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Enricher fetches the biography of each author from their detail page
type Enricher struct {
	fetcher     fetcher.Fetcher
	parser      *parser.Parser
	base        *url.URL
	concurrency int
	log         logger.Logger
}

// NewEnricher creates a new Enricher. A concurrency below 1 is treated as 1.
func NewEnricher(f fetcher.Fetcher, p *parser.Parser, base *url.URL, concurrency int, log logger.Logger) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		fetcher:     f,
		parser:      p,
		base:        base,
		concurrency: concurrency,
		log:         log,
	}
}

// AuthorURL returns the detail page URL for a slug
func (e *Enricher) AuthorURL(authorSlug string) string {
	return e.base.ResolveReference(&url.URL{Path: "/author/" + authorSlug + "/"}).String()
}

// Enrich fetches one biography per name. Authors are returned in the order
// of names; a name that fails is left out and its *AuthorError is combined
// into the returned error. Other names are not affected by it.
func (e *Enricher) Enrich(ctx context.Context, names []string) ([]models.Author, error) {
	authors := make([]models.Author, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			authors[i], errs[i] = e.enrichOne(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	var (
		result = make([]models.Author, 0, len(names))
		err    error
	)
	for i := range names {
		if errs[i] != nil {
			err = multierr.Append(err, errs[i])
			continue
		}
		result = append(result, authors[i])
	}

	if err != nil {
		e.log.Warn("Some authors could not be enriched",
			logger.Int("failed", len(multierr.Errors(err))),
			logger.Int("enriched", len(result)),
		)
	}
	return result, err
}

func (e *Enricher) enrichOne(ctx context.Context, name string) (models.Author, error) {
	authorSlug := slug.Normalize(name)
	if authorSlug == "" {
		return models.Author{}, &AuthorError{Name: name, Err: &NormalizationError{Name: name}}
	}

	authorURL := e.AuthorURL(authorSlug)
	e.log.Info("Fetching author", logger.String("author", name), logger.String("url", authorURL))

	body, err := e.fetcher.Fetch(ctx, authorURL)
	if err != nil {
		var te *fetcher.TransportError
		if !errors.As(err, &te) {
			err = &fetcher.TransportError{URL: authorURL, Err: err}
		}
		return models.Author{}, &AuthorError{Name: name, URL: authorURL, Err: err}
	}

	doc, err := e.parser.Document(body)
	if err != nil {
		return models.Author{}, &AuthorError{Name: name, URL: authorURL, Err: err}
	}

	bio, err := e.parser.ParseBiography(doc)
	if err != nil {
		return models.Author{}, &AuthorError{Name: name, URL: authorURL, Err: err}
	}

	return models.Author{Name: name, Biography: bio}, nil
}
