package crawler

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"
	"testing"

	"quotes-scraper/fetcher"
	"quotes-scraper/models"

	"github.com/stretchr/testify/require"
)

const testBase = "http://quotes.test/"

// siteFetcher serves a synthetic quotes site from memory
type siteFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	hits  []string
}

func newSite() *siteFetcher {
	return &siteFetcher{pages: make(map[string]string)}
}

func (s *siteFetcher) add(path, body string) *siteFetcher {
	s.pages[testBase+strings.TrimPrefix(path, "/")] = body
	return s
}

func (s *siteFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &fetcher.TransportError{URL: u, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = append(s.hits, u)

	body, ok := s.pages[u]
	if !ok {
		return nil, &fetcher.TransportError{URL: u, StatusCode: 404, Err: fmt.Errorf("unexpected status 404")}
	}
	return []byte(body), nil
}

func (s *siteFetcher) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hits...)
}

// listing renders a listing page. An empty next omits the pager.
func listing(next string, quotes ...models.Quote) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"container\">\n")
	for _, q := range quotes {
		fmt.Fprintf(&b, `<div class="quote">
  <span class="text">%s</span>
  <span>by <small class="author">%s</small></span>
  <div class="tags">
    Tags:
`, html.EscapeString(q.Text), html.EscapeString(q.Author))
		for _, tag := range q.Tags {
			fmt.Fprintf(&b, "    <a class=\"tag\" href=\"/tag/%s/\">%s</a>\n", tag, tag)
		}
		b.WriteString("  </div>\n</div>\n")
	}
	if next != "" {
		fmt.Fprintf(&b, "<ul class=\"pager\"><li class=\"next\"><a href=\"%s\">Next</a></li></ul>\n", next)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func authorPage(bio string) string {
	return "<html><body><div class=\"author-details\">\n<div class=\"author-description\">\n    " +
		html.EscapeString(bio) + "\n</div></div></body></html>"
}

var (
	q1 = models.Quote{Text: "“One”", Author: "Albert Einstein", Tags: []string{"change", "deep-thoughts"}}
	q2 = models.Quote{Text: "“Two”", Author: "J.K. Rowling", Tags: []string{"choices"}}
	q3 = models.Quote{Text: "“Three”", Author: "Albert Einstein", Tags: []string{}}
	q4 = models.Quote{Text: "“Four”", Author: "André Gide", Tags: []string{"life", "love"}}
	q5 = models.Quote{Text: "“Five”", Author: "Jane Austen", Tags: []string{"humor"}}
)

// threePageSite links / to page 2 with a relative href and page 2 to page 3
// with an absolute one
func threePageSite() *siteFetcher {
	return newSite().
		add("/", listing("/page/2/", q1, q2)).
		add("/page/2/", listing(testBase+"page/3/", q3, q4)).
		add("/page/3/", listing("", q5)).
		add("/author/Albert-Einstein/", authorPage("Born in Ulm.")).
		add("/author/J-K-Rowling/", authorPage("Wrote books.")).
		add("/author/Andre-Gide/", authorPage("French author.")).
		add("/author/Jane-Austen/", authorPage("English novelist."))
}

func mustBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(testBase)
	require.NoError(t, err)
	return u
}
