package crawler

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"quotes-scraper/fetcher"
	"quotes-scraper/logger"
	"quotes-scraper/models"
	"quotes-scraper/parser"
	"quotes-scraper/registry"

	"github.com/PuerkitoBio/goquery"
)

type stateKind int

const (
	stateFetching stateKind = iota
	stateExtracting
	stateLocatingNext
	stateDone
	stateFailed
)

// state is one step of the pagination walk
type state struct {
	kind stateKind
	url  string
	page string
	doc  *goquery.Document
	err  error
}

// WalkOptions controls when a walk stops early
type WalkOptions struct {
	MaxPages    int  // 0 means no limit
	KeepPartial bool // Return the quotes gathered before a failure
}

// WalkResult is the outcome of a pagination walk
type WalkResult struct {
	Quotes  []models.Quote
	Pages   []string // Page identifiers in visit order
	Partial bool     // Set when the walk failed and Quotes holds what was gathered so far
}

// Walker follows next-page links from the base URL and extracts quotes
type Walker struct {
	fetcher fetcher.Fetcher
	parser  *parser.Parser
	base    *url.URL
	opts    WalkOptions
	log     logger.Logger
}

// NewWalker creates a new Walker
func NewWalker(f fetcher.Fetcher, p *parser.Parser, base *url.URL, opts WalkOptions, log logger.Logger) *Walker {
	return &Walker{
		fetcher: f,
		parser:  p,
		base:    base,
		opts:    opts,
		log:     log,
	}
}

// Walk crawls every page reachable through next links, one page at a time.
// Each quote author is recorded in reg as the quote is extracted.
//
// On failure the error is a *PageError. The quotes gathered so far are
// returned only when KeepPartial is set.
func (w *Walker) Walk(ctx context.Context, reg *registry.Registry) (WalkResult, error) {
	var (
		result  WalkResult
		visited = make(map[string]struct{})
	)

	w.log.Info("Start parsing quotes", logger.String("url", w.base.String()))

	start := canonicalURL(w.base)
	st := state{kind: stateFetching, url: start, page: PageID(start)}
	for {
		switch st.kind {
		case stateFetching:
			visited[st.url] = struct{}{}
			result.Pages = append(result.Pages, st.page)
			st = w.fetch(ctx, st)

		case stateExtracting:
			st = w.extract(st, reg, &result.Quotes)

		case stateLocatingNext:
			if w.opts.MaxPages > 0 && len(result.Pages) >= w.opts.MaxPages {
				w.log.Info("Reached page limit", logger.Int("max_pages", w.opts.MaxPages))
				st = state{kind: stateDone}
				continue
			}
			st = w.locateNext(st, visited)

		case stateDone:
			w.log.Info("Finished parsing quotes",
				logger.Int("pages", len(result.Pages)),
				logger.Int("quotes", len(result.Quotes)),
			)
			return result, nil

		case stateFailed:
			w.log.Error("Parsing quotes failed", logger.Err(st.err))
			if w.opts.KeepPartial {
				result.Partial = true
				return result, st.err
			}
			return WalkResult{Pages: result.Pages}, st.err
		}
	}
}

func (w *Walker) fetch(ctx context.Context, st state) state {
	w.log.Info("Start parsing page", logger.String("page", st.page), logger.String("url", st.url))

	body, err := w.fetcher.Fetch(ctx, st.url)
	if err != nil {
		var te *fetcher.TransportError
		if !errors.As(err, &te) {
			err = &fetcher.TransportError{URL: st.url, Err: err}
		}
		return st.fail(err)
	}

	doc, err := w.parser.Document(body)
	if err != nil {
		return st.fail(err)
	}

	return state{kind: stateExtracting, url: st.url, page: st.page, doc: doc}
}

func (w *Walker) extract(st state, reg *registry.Registry, acc *[]models.Quote) state {
	quotes, err := w.parser.ParseQuotesFunc(st.doc, func(q models.Quote) {
		reg.Observe(q.Author)
	})
	if err != nil {
		return st.fail(err)
	}

	*acc = append(*acc, quotes...)
	w.log.Debug("Parsed page", logger.String("page", st.page), logger.Int("quotes", len(quotes)))

	return state{kind: stateLocatingNext, url: st.url, page: st.page, doc: st.doc}
}

func (w *Walker) locateNext(st state, visited map[string]struct{}) state {
	href, ok, err := w.parser.FindNextLink(st.doc)
	if err != nil {
		return st.fail(err)
	}
	if !ok {
		return state{kind: stateDone}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return st.fail(&parser.ExtractionError{Field: "next link", Index: -1, Err: err})
	}
	next := canonicalURL(w.base.ResolveReference(ref))

	if _, seen := visited[next]; seen {
		w.log.Warn("Next link points to a visited page, stopping",
			logger.String("page", st.page),
			logger.String("next", next),
		)
		return state{kind: stateDone}
	}

	return state{kind: stateFetching, url: next, page: PageID(next)}
}

// canonicalURL is the form used for fetching and for the visited set:
// no fragment, and "/" for an empty path.
func canonicalURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" && c.Opaque == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return c.String()
}

func (st state) fail(err error) state {
	return state{
		kind: stateFailed,
		err:  &PageError{Page: st.page, URL: st.url, Err: err},
	}
}

var pageSegment = regexp.MustCompile(`(?:^|/)page/([^/?#]+)`)

// PageID returns the page identifier of a listing URL, e.g. "3" for both
// "/page/3/" and "https://quotes.toscrape.com/page/3/". URLs outside the
// /page/{n}/ scheme fall back to their path.
func PageID(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	if m := pageSegment.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if path == "" {
		return "/"
	}
	return strings.TrimSuffix(path, "/") + "/"
}
