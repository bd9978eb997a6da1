package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stockresearcher/backend/internal/prices"
	"github.com/stockresearcher/backend/internal/scheduler"
	"github.com/stockresearcher/backend/internal/scheduler/jobs"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/database"
	"github.com/stockresearcher/backend/pkg/logger"
	"github.com/stockresearcher/backend/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Subcommands:
  start   - Start the scheduler daemon
  list    - List registered jobs
  run     - Run one job immediately
  status  - Show job execution history

Example:
  go run ./cmd/researcher scheduler start
  go run ./cmd/researcher scheduler list
  go run ./cmd/researcher scheduler run benchmark_warmup`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and schedules all registered jobs.

Registered jobs:
- benchmark_warmup: daily at 06:30 (re-cache benchmark averages after
  the nightly price load)

The scheduler can be stopped with Ctrl+C.`,
		RunE: runSchedulerStart,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  runSchedulerList,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  runSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stock Researcher Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	history, err := sched.GetJobHistory(jobName)
	if err != nil {
		return err
	}
	for _, result := range history.GetLatestResults(1) {
		if result.Success {
			fmt.Printf("✅ Job completed in %v\n", result.Duration)
		} else {
			fmt.Printf("❌ Job failed after %v: %s\n", result.Duration, result.Error)
		}
	}

	return nil
}

func runSchedulerStatus(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range sched.GetAllJobs() {
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return err
		}

		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Total Runs: %d\n", len(history.Results))
		fmt.Printf("   Success Rate: %.1f%%\n", history.GetSuccessRate()*100)

		for _, result := range history.GetLatestResults(3) {
			status := "✅"
			if !result.Success {
				status = "❌"
			}
			fmt.Printf("   %s %s (%v)\n", status, result.StartTime.Format("2006-01-02 15:04:05"), result.Duration)
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, func(), error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (optional, benchmark cache)
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}

	// 5. Create the benchmark averager
	monthlyRepo := prices.NewMonthlyRepository(db.Pool)
	cache := redis.NewCache(redisClient, "seasonality")
	benchmark := seasonality.NewBenchmark(monthlyRepo, cfg.Seasonality.BenchmarkTickers, cache, log)

	// 6. Create scheduler and register jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewBenchmarkWarmupJob(benchmark, cfg.Seasonality.YearsBack, log)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("register warmup job: %w", err)
	}

	return sched, cleanup, nil
}
