package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "researcher",
	Short: "Stock Researcher - historical seasonality analytics",
	Long: `Stock Researcher Unified CLI

Seasonality analytics over monthly stock price aggregates: simulated
trade returns per entry month and holding period, benchmark alpha,
outlier flags, trimmed means and a cross-ticker screener.

Usage:
  go run ./cmd/researcher [command]

Examples:
  go run ./cmd/researcher api
  go run ./cmd/researcher heatmap AAPL --period 3 --method openClose
  go run ./cmd/researcher screener --min-win-rate 70
  go run ./cmd/researcher test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
