package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finlens/finlens/internal/config"
	"github.com/finlens/finlens/internal/database"
	"github.com/finlens/finlens/internal/fetch"
	"github.com/finlens/finlens/internal/pipeline"
	"github.com/finlens/finlens/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "finlens",
	Short:   "News sentiment trading signals",
	Long:    "finlens scrapes stock news headlines, scores them with FinBERT, and backtests a daily long/flat/short rule against historical prices.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("finlens", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/finlens/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure your watchlist and the scoring endpoint.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Today: %s\n\n", database.GetToday())
		fmt.Println("Headlines:")
		fmt.Printf("  Total collected: %d\n", stats.TotalHeadlines)
		fmt.Printf("  Scored: %d\n", stats.ScoredHeadlines)
		fmt.Printf("  Tickers: %d\n", stats.Tickers)
		fmt.Println("\nOutput:")
		fmt.Printf("  Backtest reports: %d\n", stats.Reports)
		return nil
	},
}

// --- scan command ---

var scanCmd = &cobra.Command{
	Use:   "scan [ticker...]",
	Short: "Scrape, score, and store headlines for tickers (default: configured watchlist)",
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := upperAll(args)
		if len(tickers) == 0 {
			tickers = cfg.Watchlist
		}
		if len(tickers) == 0 {
			return fmt.Errorf("no tickers given and the configured watchlist is empty")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		ctx := context.Background()

		for _, ticker := range tickers {
			fmt.Printf("\nScanning %s\n", ticker)
			result := pipe.Scan(ctx, ticker)
			printSteps(result)
		}
		return nil
	},
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Aggregate sentiment and backtest the trading rule for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := strings.ToUpper(args[0])

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		result := pipe.Analyze(context.Background(), ticker)
		printSteps(result)

		if len(result.Rows) > 0 {
			s := result.RunSummary
			fmt.Printf("\n%s backtest: %.2f -> %.2f (%+.2f%%) over %d trading days\n",
				ticker, cfg.Backtest.InitialCapital, s.FinalEquity, s.TotalReturn*100, s.TradingDays)
			fmt.Printf("Run 'finlens serve' to view the full report.\n")
		}
		return nil
	},
}

// --- fetch command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker]",
	Short: "Fetch full article text for stored headlines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var ticker *string
		if len(args) > 0 {
			t := strings.ToUpper(args[0])
			ticker = &t
		}

		fetcher := fetch.NewContentFetcher(db, 15*time.Second)
		result := fetcher.FetchMissingContent(ticker)
		fmt.Printf("Fetched %d articles, %d failed\n", result.Fetched, result.Failed)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func printSteps(result *pipeline.Result) {
	for i, step := range result.Steps {
		fmt.Printf("Step %d: %s\n", i+1, step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}
}

func upperAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.ToUpper(a)
	}
	return out
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "finlens.db")
	return database.Open(dbPath)
}
