package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.Site.BaseURL)
	assert.Equal(t, ".next", cfg.Site.Selectors.Next)
	assert.Equal(t, "quotes.csv", cfg.Output.Quotes)
	assert.Equal(t, "authors.csv", cfg.Output.Authors)
	assert.Equal(t, ",", cfg.Output.TagsDelimiter)
	assert.False(t, cfg.Crawl.KeepPartial)
	assert.Zero(t, cfg.Crawl.MaxPages)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  base_url: http://localhost:8080/
crawl:
  max_pages: 3
  keep_partial: true
  delay: 250ms
  enrich_concurrency: 4
transport:
  kind: resty
  retries: 3
output:
  tags_delimiter: ";"
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8080/", cfg.Site.BaseURL)
	assert.Equal(t, ".quote", cfg.Site.Selectors.Quote, "unset selectors keep their defaults")
	assert.Equal(t, 3, cfg.Crawl.MaxPages)
	assert.True(t, cfg.Crawl.KeepPartial)
	assert.Equal(t, 250*time.Millisecond, cfg.Crawl.Delay)
	assert.Equal(t, 4, cfg.Crawl.EnrichConcurrency)
	assert.Equal(t, TransportResty, cfg.Transport.Kind)
	assert.Equal(t, 30*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, 3, cfg.Transport.Retries)
	assert.Equal(t, ";", cfg.Output.TagsDelimiter)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig(writeConfig(t, "site: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.Site.BaseURL = "/quotes" }, "absolute http(s) URL"},
		{"ftp base url", func(c *Config) { c.Site.BaseURL = "ftp://example.com/" }, "absolute http(s) URL"},
		{"empty selector", func(c *Config) { c.Site.Selectors.Biography = "" }, "selectors"},
		{"negative max pages", func(c *Config) { c.Crawl.MaxPages = -1 }, "max_pages"},
		{"negative delay", func(c *Config) { c.Crawl.Delay = -time.Second }, "delay"},
		{"zero concurrency", func(c *Config) { c.Crawl.EnrichConcurrency = 0 }, "enrich_concurrency"},
		{"unknown transport", func(c *Config) { c.Transport.Kind = "curl" }, "transport kind"},
		{"zero retries", func(c *Config) { c.Transport.Retries = 0 }, "retries"},
		{"unknown format", func(c *Config) { c.Output.Format = "xlsx" }, "output format"},
		{"sheets without url", func(c *Config) { c.Output.Format = FormatSheets }, "spreadsheet_url"},
		{"empty output", func(c *Config) { c.Output.Authors = "" }, "outputs must be set"},
		{"empty delimiter", func(c *Config) { c.Output.TagsDelimiter = "" }, "tags_delimiter"},
		{"backslash delimiter", func(c *Config) { c.Output.TagsDelimiter = `\|` }, "backslash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
