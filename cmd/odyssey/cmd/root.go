package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "odyssey",
	Short: "A paper-trading terminal for learning the markets",
	Long: `Odyssey is a simulated trading terminal written in Go.

It provides tools for:
  - Paper trading against live market prices
  - Automatic stop-loss and take-profit order monitoring
  - Day-by-day practice sessions over historical data
  - Post-trade analysis with RSI entry grading
  - A durable trade journal (SQLite or CSV)

Session state (cash, portfolio, trade history, watchlist) round-trips
through a JSON snapshot file between invocations.`,
}

var (
	cfgFile string
	verbose bool
	logger  zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./odyssey.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogger() {
	// .env is optional; it only seeds environment overrides.
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
