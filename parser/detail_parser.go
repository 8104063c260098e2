package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseBiography extracts the trimmed biography from an author detail page
func (p *Parser) ParseBiography(doc *goquery.Document) (string, error) {
	block := doc.Find(p.sel.Biography).First()
	if block.Length() == 0 {
		return "", &ExtractionError{Field: "biography", Index: -1, Err: ErrElementMissing}
	}
	return strings.TrimSpace(block.Text()), nil
}
