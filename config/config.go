package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"quotes-scraper/logger"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the listing site crawled when no base URL is configured
const DefaultBaseURL = "https://quotes.toscrape.com/"

// Transport kinds
const (
	TransportColly = "colly"
	TransportResty = "resty"
)

// Output formats
const (
	FormatCSV    = "csv"
	FormatSheets = "sheets"
)

// Config represents the scraper configuration
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Crawl     CrawlConfig     `yaml:"crawl"`
	Transport TransportConfig `yaml:"transport"`
	Output    OutputConfig    `yaml:"output"`
	Log       logger.Config   `yaml:"log"`
}

// SiteConfig describes the crawled site
type SiteConfig struct {
	BaseURL   string    `yaml:"base_url"`
	Selectors Selectors `yaml:"selectors"`
}

// Selectors are the CSS selectors the parser relies on
type Selectors struct {
	Quote     string `yaml:"quote"`
	Text      string `yaml:"text"`
	Author    string `yaml:"author"`
	Tags      string `yaml:"tags"`
	Next      string `yaml:"next"`
	Biography string `yaml:"biography"`
}

// CrawlConfig controls the pagination walk and the author pass
type CrawlConfig struct {
	MaxPages          int           `yaml:"max_pages"`    // 0 means follow next links until they run out
	KeepPartial       bool          `yaml:"keep_partial"` // Return quotes gathered before a failure
	Delay             time.Duration `yaml:"delay"`
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
	SkipAuthors       bool          `yaml:"skip_authors"`
}

// TransportConfig controls the HTTP transport
type TransportConfig struct {
	Kind      string        `yaml:"kind"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"` // Total attempts per request
	UserAgent string        `yaml:"user_agent"`
}

// OutputConfig controls where the artifacts are written
type OutputConfig struct {
	Format         string `yaml:"format"`
	Quotes         string `yaml:"quotes"`
	Authors        string `yaml:"authors"`
	TagsDelimiter  string `yaml:"tags_delimiter"`
	SpreadsheetURL string `yaml:"spreadsheet_url"`
	Credentials    string `yaml:"credentials"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:   DefaultBaseURL,
			Selectors: DefaultSelectors(),
		},
		Crawl: CrawlConfig{
			EnrichConcurrency: 1,
		},
		Transport: TransportConfig{
			Kind:      TransportColly,
			Timeout:   30 * time.Second,
			Retries:   1,
			UserAgent: "quotes-scraper/1.0",
		},
		Output: OutputConfig{
			Format:        FormatCSV,
			Quotes:        "quotes.csv",
			Authors:       "authors.csv",
			TagsDelimiter: ",",
		},
		Log: logger.Config{
			Level:       "info",
			OutputPaths: logger.DefaultOutputPaths,
		},
	}
}

// DefaultSelectors returns the selectors matching quotes.toscrape.com
func DefaultSelectors() Selectors {
	return Selectors{
		Quote:     ".quote",
		Text:      ".text",
		Author:    ".author",
		Tags:      ".tags",
		Next:      ".next",
		Biography: ".author-description",
	}
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.Site.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: expected an absolute http(s) URL", c.Site.BaseURL)
	}

	s := c.Site.Selectors
	if s.Quote == "" || s.Text == "" || s.Author == "" || s.Tags == "" || s.Next == "" || s.Biography == "" {
		return fmt.Errorf("all site selectors must be set")
	}

	if c.Crawl.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative, got %d", c.Crawl.MaxPages)
	}
	if c.Crawl.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Crawl.Delay)
	}
	if c.Crawl.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be at least 1, got %d", c.Crawl.EnrichConcurrency)
	}

	switch c.Transport.Kind {
	case TransportColly, TransportResty:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
	if c.Transport.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Transport.Retries)
	}

	switch c.Output.Format {
	case FormatCSV:
	case FormatSheets:
		if c.Output.SpreadsheetURL == "" {
			return fmt.Errorf("spreadsheet_url is required for the sheets format")
		}
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Output.Quotes == "" || c.Output.Authors == "" {
		return fmt.Errorf("quotes and authors outputs must be set")
	}
	if c.Output.TagsDelimiter == "" {
		return fmt.Errorf("tags_delimiter must not be empty")
	}
	if strings.Contains(c.Output.TagsDelimiter, `\`) {
		return fmt.Errorf("tags_delimiter must not contain a backslash")
	}

	return nil
}
