package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"quotes-scraper/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "quotes-scraper",
	Short:         "quotes-scraper crawls a paginated quotes site and exports quotes and author biographies.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; it usually carries GOOGLE_SHEETS_CREDENTIALS
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
}

// ExecuteContext runs the root command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads configuration from file, or returns defaults when the file is absent
func loadConfig(path string) (*config.Config, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.GetDefaultConfig(), false, nil
		}
		return nil, false, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
