package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"quotes-scraper/config"
	"quotes-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrElementMissing is returned when a required element is absent
	ErrElementMissing = errors.New("required element not found")
	// ErrMissingHref is returned when the next link has no usable href
	ErrMissingHref = errors.New("link has no href")
)

// ExtractionError reports markup that lacks an element a record needs
type ExtractionError struct {
	Field string
	Index int // Position of the quote fragment on the page, -1 for page-level lookups
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("extract quote #%d %s: %v", e.Index+1, e.Field, e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Parser extracts quote data from HTML
type Parser struct {
	sel config.Selectors
}

// NewParser creates a new Parser instance
func NewParser(sel config.Selectors) *Parser {
	return &Parser{sel: sel}
}

// Document parses raw HTML into a queryable document
func (p *Parser) Document(raw []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseQuotes extracts every quote on the page in document order
func (p *Parser) ParseQuotes(doc *goquery.Document) ([]models.Quote, error) {
	return p.ParseQuotesFunc(doc, nil)
}

// ParseQuotesFunc extracts every quote on the page in document order.
// observe, when set, is called with each quote before it is collected.
// The first fragment missing a required element aborts the page.
func (p *Parser) ParseQuotesFunc(doc *goquery.Document, observe func(models.Quote)) ([]models.Quote, error) {
	var (
		quotes []models.Quote
		err    error
	)

	doc.Find(p.sel.Quote).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var quote models.Quote
		quote, err = p.extractQuote(i, s)
		if err != nil {
			return false
		}
		if observe != nil {
			observe(quote)
		}
		quotes = append(quotes, quote)
		return true
	})
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// extractQuote extracts a single quote from its container
func (p *Parser) extractQuote(i int, s *goquery.Selection) (models.Quote, error) {
	text, err := p.requireText(i, s, p.sel.Text, "text")
	if err != nil {
		return models.Quote{}, err
	}

	author, err := p.requireText(i, s, p.sel.Author, "author")
	if err != nil {
		return models.Quote{}, err
	}

	tagLine, err := p.requireText(i, s, p.sel.Tags, "tags")
	if err != nil {
		return models.Quote{}, err
	}

	return models.Quote{
		Text:   text,
		Author: author,
		Tags:   splitTags(tagLine),
	}, nil
}

func (p *Parser) requireText(i int, s *goquery.Selection, selector, field string) (string, error) {
	node := s.Find(selector).First()
	if node.Length() == 0 {
		return "", &ExtractionError{Field: field, Index: i, Err: ErrElementMissing}
	}
	return node.Text(), nil
}

// splitTags turns "Tags: a b c" into [a b c]; the leading label word is dropped
func splitTags(line string) []string {
	fields := strings.Fields(line)
	if len(fields) <= 1 {
		return []string{}
	}
	return fields[1:]
}

// FindNextLink returns the href of the next-page link.
// ok is false when the page has no next link, which ends pagination.
// A next container without a usable href is an *ExtractionError.
func (p *Parser) FindNextLink(doc *goquery.Document) (href string, ok bool, err error) {
	next := doc.Find(p.sel.Next).First()
	if next.Length() == 0 {
		return "", false, nil
	}

	anchor := next
	if !next.Is("a") {
		anchor = next.Find("a").First()
	}
	if anchor.Length() == 0 {
		return "", false, &ExtractionError{Field: "next link", Index: -1, Err: ErrElementMissing}
	}

	href = strings.TrimSpace(anchor.AttrOr("href", ""))
	if href == "" {
		return "", false, &ExtractionError{Field: "next link", Index: -1, Err: ErrMissingHref}
	}

	return href, true, nil
}
