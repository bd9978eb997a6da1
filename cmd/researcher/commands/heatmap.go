package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/prices"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/database"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// heatmapCmd represents the heatmap command
var heatmapCmd = &cobra.Command{
	Use:   "heatmap [ticker]",
	Short: "Print the seasonality heatmap for a ticker",
	Long: `Computes and prints the per-month seasonality aggregates for one
ticker: count, win rate, average, trimmed mean, extremes, alpha and
outlier flags.

Example:
  go run ./cmd/researcher heatmap AAPL
  go run ./cmd/researcher heatmap TSLA --period 3 --method maxMax --view exit`,
	Args: cobra.ExactArgs(1),
	RunE: runHeatmap,
}

var (
	heatmapPeriod int
	heatmapMethod string
	heatmapView   string
	heatmapYears  int
)

func init() {
	rootCmd.AddCommand(heatmapCmd)

	heatmapCmd.Flags().IntVar(&heatmapPeriod, "period", 12, "holding period in months (1|3|6|12)")
	heatmapCmd.Flags().StringVar(&heatmapMethod, "method", "openClose", "calculation method (openClose|maxMax)")
	heatmapCmd.Flags().StringVar(&heatmapView, "view", "entry", "view mode (entry|exit)")
	heatmapCmd.Flags().IntVar(&heatmapYears, "years", 0, "years of history (default from config)")
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	method, err := contracts.ParseCalculationMethod(heatmapMethod)
	if err != nil {
		return err
	}
	view, err := contracts.ParseViewMode(heatmapView)
	if err != nil {
		return err
	}
	years := heatmapYears
	if years <= 0 {
		years = cfg.Seasonality.YearsBack
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
	cache := redis.NewCache(redisClient, "seasonality")
	benchmark := seasonality.NewBenchmark(monthlyRepo, cfg.Seasonality.BenchmarkTickers, cache, log)
	service := seasonality.NewService(monthlyRepo, benchmark, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := service.Heatmap(ctx, seasonality.HeatmapQuery{
		Ticker:        ticker,
		HoldingPeriod: heatmapPeriod,
		Method:        method,
		ViewMode:      view,
		YearsBack:     years,
	})
	if err != nil {
		return err
	}

	fmt.Printf("=== %s seasonality (period=%dm method=%s view=%s) ===\n", ticker, heatmapPeriod, method, view)
	fmt.Printf("Cells: %d   Last updated: %s\n\n", len(result.Cells), result.LastUpdated.Format("2006-01-02"))
	fmt.Println("Month  Count  Win%   Avg     Trimmed  Min      Max      Alpha   Outlier")

	months := make([]int, 0, len(result.Aggregates))
	for m := range result.Aggregates {
		months = append(months, m)
	}
	sort.Ints(months)

	for _, m := range months {
		agg := result.Aggregates[m]
		stats := result.Stats[m]
		outlier := "-"
		if stats.Outlier.HasOutlier {
			outlier = fmt.Sprintf("%s (%d: %.1f%%)", stats.Outlier.Severity, stats.Outlier.TopYear, stats.Outlier.TopValue)
		}
		fmt.Printf("%5s  %5d  %3d%%  %6.2f  %7.2f  %7.2f  %7.2f  %6.2f  %s\n",
			time.Month(m).String()[:3], agg.Count, agg.WinRate,
			agg.AvgReturn, stats.TrimmedMean, agg.MinReturn, agg.MaxReturn, agg.Alpha, outlier)
	}

	return nil
}
