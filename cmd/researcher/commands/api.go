package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockresearcher/backend/internal/api"
	"github.com/stockresearcher/backend/internal/api/handlers"
	"github.com/stockresearcher/backend/internal/prices"
	"github.com/stockresearcher/backend/internal/screener"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/database"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                        - Health check
  GET  /api/stocks                    - Tracked-ticker universe
  GET  /api/stocks/{ticker}/heatmap   - Seasonality heatmap
  GET  /api/screener                  - Cross-ticker pattern screener

Example:
  go run ./cmd/researcher api
  go run ./cmd/researcher api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stock Researcher API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional, benchmark cache)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Create repositories
	monthlyRepo := prices.NewMonthlyRepository(db.Pool)
	stockRepo := prices.NewStockRepository(db.Pool)

	// 6. Create engine
	cache := redis.NewCache(redisClient, "seasonality")
	benchmark := seasonality.NewBenchmark(monthlyRepo, cfg.Seasonality.BenchmarkTickers, cache, log)
	service := seasonality.NewService(monthlyRepo, benchmark, log)
	scan := screener.New(stockRepo, monthlyRepo, benchmark, cfg.Seasonality.YearsBack, log)

	// 7. Create handlers
	heatmapHandler := handlers.NewHeatmapHandler(service, cfg, log)
	screenerHandler := handlers.NewScreenerHandler(scan, cfg, log)
	stockHandler := handlers.NewStockHandler(stockRepo, log)

	// 8. Create router and server
	router := api.NewRouter(cfg, heatmapHandler, screenerHandler, stockHandler, log)
	server := api.New(cfg, log, router)

	// 9. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/stocks")
	fmt.Println("  GET  /api/stocks/{ticker}/heatmap")
	fmt.Println("  GET  /api/screener")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
