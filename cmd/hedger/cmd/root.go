package cmd

import (
	"fmt"

	"github.com/rustyeddy/hedger/config"
	"github.com/rustyeddy/hedger/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "hedger",
	Short: "A delta-hedging simulator for European options",
	Long: `Hedger simulates delta hedging of a European option portfolio.

It provides tools for:
  - Generating synthetic GARCH-style price series
  - Pricing options with Black-Scholes (price, delta, gamma)
  - Running hedge simulations that re-hedge to zero delta every step
  - Journaling trades and steps to CSV or SQLite
  - Serving pricing and simulations over HTTP with Prometheus metrics`,
	SilenceUsage: true,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg logging.Config) (*zap.Logger, func(), error) {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	log, cleanup, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return log, func() {
		_ = log.Sync()
		_ = cleanup()
	}, nil
}
