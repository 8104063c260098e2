package models

// Quote represents a single quote extracted from a listing page
type Quote struct {
	Text   string
	Author string   // Display name as printed on the page
	Tags   []string // In document order
}

// Author represents a distinct author enriched from their detail page
type Author struct {
	Name      string
	Biography string
}

// QuoteFields is the header row of the quotes artifact
var QuoteFields = []string{"text", "author", "tags"}

// AuthorFields is the header row of the authors artifact
var AuthorFields = []string{"name", "biography"}
