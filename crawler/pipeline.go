package crawler

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"quotes-scraper/config"
	"quotes-scraper/export"
	"quotes-scraper/fetcher"
	"quotes-scraper/logger"
	"quotes-scraper/parser"
	"quotes-scraper/registry"

	"go.uber.org/multierr"
)

// Summary describes a finished run
type Summary struct {
	Pages         []string
	Quotes        int
	Authors       int
	AuthorsFailed int
	Partial       bool
	QuotesTarget  string
	AuthorsTarget string
	Elapsed       time.Duration
}

// Pipeline runs the quote walk, writes the quotes, enriches the authors
// seen during the walk and writes them
type Pipeline struct {
	walker      *Walker
	enricher    *Enricher
	exporter    *export.Exporter
	output      config.OutputConfig
	skipAuthors bool
	log         logger.Logger
}

// New builds a Pipeline from configuration
func New(cfg *config.Config, f fetcher.Fetcher, w export.RowWriter, log logger.Logger) (*Pipeline, error) {
	base, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	p := parser.NewParser(cfg.Site.Selectors)
	return &Pipeline{
		walker: NewWalker(f, p, base, WalkOptions{
			MaxPages:    cfg.Crawl.MaxPages,
			KeepPartial: cfg.Crawl.KeepPartial,
		}, log.With(logger.String("stage", "quotes"))),
		enricher:    NewEnricher(f, p, base, cfg.Crawl.EnrichConcurrency, log.With(logger.String("stage", "authors"))),
		exporter:    export.NewExporter(w, cfg.Output.TagsDelimiter),
		output:      cfg.Output,
		skipAuthors: cfg.Crawl.SkipAuthors,
		log:         log,
	}, nil
}

// Run executes the pipeline. A failed walk stops the run before the author
// pass; the partial quotes are still written when the walk kept them.
func (p *Pipeline) Run(ctx context.Context) (summary Summary, err error) {
	start := time.Now()
	defer func() { summary.Elapsed = time.Since(start) }()

	reg := registry.New()
	res, walkErr := p.walker.Walk(ctx, reg)
	summary.Pages = res.Pages
	summary.Partial = res.Partial

	if walkErr != nil && !res.Partial {
		return summary, fmt.Errorf("crawl quotes: %w", walkErr)
	}

	if err := p.exporter.WriteQuotes(ctx, p.output.Quotes, res.Quotes); err != nil {
		return summary, multierr.Combine(walkErr, err)
	}
	summary.Quotes = len(res.Quotes)
	summary.QuotesTarget = p.output.Quotes

	if walkErr != nil {
		p.log.Warn("Wrote partial quotes", logger.Int("quotes", summary.Quotes), logger.String("target", p.output.Quotes))
		return summary, fmt.Errorf("crawl quotes: %w", walkErr)
	}

	if p.skipAuthors {
		p.log.Info("Skipping authors")
		return summary, nil
	}

	authors, enrichErr := p.enricher.Enrich(ctx, reg.Names())
	summary.Authors = len(authors)
	summary.AuthorsFailed = reg.Len() - len(authors)

	if err := p.exporter.WriteAuthors(ctx, p.output.Authors, authors); err != nil {
		return summary, multierr.Combine(enrichErr, err)
	}
	summary.AuthorsTarget = p.output.Authors

	if enrichErr != nil {
		return summary, fmt.Errorf("enrich authors: %w", enrichErr)
	}
	return summary, nil
}
