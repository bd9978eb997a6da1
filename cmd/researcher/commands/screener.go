package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/prices"
	"github.com/stockresearcher/backend/internal/screener"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/database"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// screenerCmd represents the screener command
var screenerCmd = &cobra.Command{
	Use:   "screener",
	Short: "Scan the tracked universe for seasonality patterns",
	Long: `Scans every tracked ticker for (entryMonth, holdingPeriod) patterns
passing the filters and prints them ranked by composite score.

Example:
  go run ./cmd/researcher screener
  go run ./cmd/researcher screener --min-win-rate 70 --min-avg 1.5 --min-years 10
  go run ./cmd/researcher screener --periods 3,6 --method maxMax --limit 20`,
	RunE: runScreener,
}

var (
	screenMinWinRate int
	screenMinAvg     float64
	screenMinYears   int
	screenPeriods    []int
	screenMonths     []int
	screenMethod     string
	screenLimit      int
)

func init() {
	rootCmd.AddCommand(screenerCmd)

	screenerCmd.Flags().IntVar(&screenMinWinRate, "min-win-rate", 0, "minimum win rate (whole percent)")
	screenerCmd.Flags().Float64Var(&screenMinAvg, "min-avg", 0, "minimum average return per month held")
	screenerCmd.Flags().IntVar(&screenMinYears, "min-years", 0, "minimum years of data")
	screenerCmd.Flags().IntSliceVar(&screenPeriods, "periods", nil, "holding-period allow-list (default all)")
	screenerCmd.Flags().IntSliceVar(&screenMonths, "months", nil, "entry-month allow-list (default all)")
	screenerCmd.Flags().StringVar(&screenMethod, "method", "openClose", "calculation method (openClose|maxMax)")
	screenerCmd.Flags().IntVar(&screenLimit, "limit", 50, "maximum rows to print")
}

func runScreener(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	method, err := contracts.ParseCalculationMethod(screenMethod)
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	monthlyRepo := prices.NewMonthlyRepository(db.Pool)
	stockRepo := prices.NewStockRepository(db.Pool)
	cache := redis.NewCache(redisClient, "seasonality")
	benchmark := seasonality.NewBenchmark(monthlyRepo, cfg.Seasonality.BenchmarkTickers, cache, log)
	scan := screener.New(stockRepo, monthlyRepo, benchmark, cfg.Seasonality.YearsBack, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := scan.Scan(ctx, screener.Filter{
		MinWinRate:     screenMinWinRate,
		MinAvgPerMonth: screenMinAvg,
		MinYears:       screenMinYears,
		HoldingPeriods: screenPeriods,
		Months:         screenMonths,
		Method:         method,
		Limit:          screenLimit,
	})
	if err != nil {
		return err
	}

	fmt.Printf("=== Screener: %d patterns across %d stocks (showing %d) ===\n\n",
		result.TotalPatterns, result.TotalStocks, len(result.Rows))
	fmt.Println("Ticker  Month  Period  Win%  Years  Avg/mo   Alpha   Score")

	for _, row := range result.Rows {
		fmt.Printf("%-6s  %5s  %5dm  %3d%%  %5d  %6.2f  %6.2f  %6.3f\n",
			row.Ticker, time.Month(row.EntryMonth).String()[:3], row.HoldingPeriod,
			row.WinRate, row.Count, row.AvgPerMonth, row.Alpha, row.Score)
	}

	return nil
}
