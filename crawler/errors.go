package crawler

import "fmt"

// PageError is returned when the pagination walk stops on a failure.
// Err is a *fetcher.TransportError or a *parser.ExtractionError.
type PageError struct {
	Page string
	URL  string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %s (%s): %v", e.Page, e.URL, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// AuthorError is returned for an author whose detail page could not be used
type AuthorError struct {
	Name string
	URL  string // Empty when no request was made
	Err  error
}

func (e *AuthorError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("author %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("author %q (%s): %v", e.Name, e.URL, e.Err)
}

func (e *AuthorError) Unwrap() error {
	return e.Err
}

// NormalizationError is returned when a display name yields an empty slug,
// e.g. a name made only of periods. No detail page is requested for it.
type NormalizationError struct {
	Name string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("name %q normalizes to an empty slug", e.Name)
}
