package cmd

import (
	"fmt"
	"time"

	"quotes-scraper/config"
	"quotes-scraper/crawler"
	"quotes-scraper/export"
	"quotes-scraper/fetcher"
	"quotes-scraper/logger"
	"quotes-scraper/sheets"

	"github.com/spf13/cobra"
)

// crawlFlags are the command line overrides for the configuration file
type crawlFlags struct {
	baseURL     string
	quotes      string
	authors     string
	format      string
	transport   string
	maxPages    int
	retries     int
	concurrency int
	delay       time.Duration
	keepPartial bool
	skipAuthors bool
	logLevel    string
}

var flags crawlFlags

func init() {
	f := crawlCmd.Flags()
	f.StringVar(&flags.baseURL, "base-url", "", "Base URL of the quotes site")
	f.StringVar(&flags.quotes, "quotes", "", "Quotes output target (file path, or tab name for sheets)")
	f.StringVar(&flags.authors, "authors", "", "Authors output target (file path, or tab name for sheets)")
	f.StringVar(&flags.format, "format", "", "Output format: csv or sheets")
	f.StringVar(&flags.transport, "transport", "", "HTTP transport: colly or resty")
	f.IntVar(&flags.maxPages, "max-pages", 0, "Maximum number of listing pages to visit (0 = all)")
	f.IntVar(&flags.retries, "retries", 0, "Attempts per request")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Author pages fetched in parallel")
	f.DurationVar(&flags.delay, "delay", 0, "Delay between requests")
	f.BoolVar(&flags.keepPartial, "keep-partial", false, "Write the quotes gathered before a failed page")
	f.BoolVar(&flags.skipAuthors, "skip-authors", false, "Do not fetch author biographies")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--config <config.yaml>]",
	Short: "Crawls every listing page, then every author page, and writes both tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, fromFile, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		if !fromFile {
			log.Info("Config file not found, using defaults", logger.String("path", configPath))
		}

		f, err := fetcher.NewFromConfig(cfg.Transport, cfg.Crawl.Delay, log)
		if err != nil {
			return err
		}

		w, err := newRowWriter(cmd, cfg, log)
		if err != nil {
			return err
		}

		pipeline, err := crawler.New(cfg, f, w, log)
		if err != nil {
			return err
		}

		summary, runErr := pipeline.Run(cmd.Context())
		log.Info("Run finished",
			logger.Int("pages", len(summary.Pages)),
			logger.Int("quotes", summary.Quotes),
			logger.Int("authors", summary.Authors),
			logger.Duration("elapsed", summary.Elapsed),
		)
		renderSummary(cmd.OutOrStdout(), summary, runErr)

		return runErr
	},
}

// applyFlags copies the flags the user set onto the configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("base-url") {
		cfg.Site.BaseURL = flags.baseURL
	}
	if changed("quotes") {
		cfg.Output.Quotes = flags.quotes
	}
	if changed("authors") {
		cfg.Output.Authors = flags.authors
	}
	if changed("format") {
		cfg.Output.Format = flags.format
	}
	if changed("transport") {
		cfg.Transport.Kind = flags.transport
	}
	if changed("max-pages") {
		cfg.Crawl.MaxPages = flags.maxPages
	}
	if changed("retries") {
		cfg.Transport.Retries = flags.retries
	}
	if changed("concurrency") {
		cfg.Crawl.EnrichConcurrency = flags.concurrency
	}
	if changed("delay") {
		cfg.Crawl.Delay = flags.delay
	}
	if changed("keep-partial") {
		cfg.Crawl.KeepPartial = flags.keepPartial
	}
	if changed("skip-authors") {
		cfg.Crawl.SkipAuthors = flags.skipAuthors
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
}

func newRowWriter(cmd *cobra.Command, cfg *config.Config, log logger.Logger) (export.RowWriter, error) {
	if cfg.Output.Format != config.FormatSheets {
		return export.NewCSVWriter(), nil
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Output.SpreadsheetURL)
	if spreadsheetID == "" {
		return nil, fmt.Errorf("could not extract spreadsheet ID from URL: %q", cfg.Output.SpreadsheetURL)
	}

	w, err := sheets.NewWriter(cmd.Context(), spreadsheetID, cfg.Output.Credentials, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets writer: %w", err)
	}
	return w, nil
}
