package main

import (
	"flag"
	"fmt"
	"time"
)

// BacktestFlags holds all command line flags for the portfolio backtest
// command.
type BacktestFlags struct {
	ConfigFile *string
	DBPath     *string

	StartDate *string
	EndDate   *string

	RebalanceFreq  *int
	TopK           *int
	InitialCapital *float64
	Commission     *float64
	StopLoss       *float64
	IndexSymbol    *string

	HistoryCSV  *string
	ExcelReport *string
	EnvFile     *string

	ShowVersion *bool
	ShowHelp    *bool
}

// NewBacktestFlags creates and registers all backtest command line flags.
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		ConfigFile: flag.String("config", "", "Path to YAML backtest configuration file"),
		DBPath:     flag.String("db", DefaultDBPath, "Path to sqlite price database"),

		StartDate: flag.String("start", "", "Backtest start date (YYYY-MM-DD)"),
		EndDate:   flag.String("end", "", "Backtest end date (YYYY-MM-DD)"),

		RebalanceFreq:  flag.Int("freq", DefaultRebalanceFreq, "Rebalance every N trading days"),
		TopK:           flag.Int("top", DefaultTopK, "Number of stocks to hold"),
		InitialCapital: flag.Float64("capital", DefaultInitialCapital, "Initial capital"),
		Commission:     flag.Float64("commission", DefaultCommission, "Commission rate per trade"),
		StopLoss:       flag.Float64("stop-loss", DefaultStopLoss, "Per-position stop loss fraction, 0 disables"),
		IndexSymbol:    flag.String("index", DefaultIndexSymbol, "Index symbol for the market trend filter"),

		HistoryCSV:  flag.String("csv", "", "Write daily history to this CSV file"),
		ExcelReport: flag.String("xlsx", "", "Write report to this Excel file"),
		EnvFile:     flag.String("env", "", "Path to .env file"),

		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("h", false, "Show help information"),
	}
}

// ValidateBacktestFlags checks flag combinations before any work starts.
func ValidateBacktestFlags(flags *BacktestFlags) error {
	if *flags.ConfigFile != "" {
		return nil
	}
	if *flags.StartDate == "" || *flags.EndDate == "" {
		return fmt.Errorf("either -config or both -start and -end are required")
	}
	if _, err := time.Parse("2006-01-02", *flags.StartDate); err != nil {
		return fmt.Errorf("bad -start date %q: %w", *flags.StartDate, err)
	}
	if _, err := time.Parse("2006-01-02", *flags.EndDate); err != nil {
		return fmt.Errorf("bad -end date %q: %w", *flags.EndDate, err)
	}
	return nil
}

func printUsageHelp() {
	fmt.Printf("%s v%s\n\n", AppName, AppVersion)
	fmt.Println("Multi-factor portfolio backtest over a local sqlite price database.")
	fmt.Println("\nUsage:")
	fmt.Println("  backtest -config configs/backtest.yaml")
	fmt.Println("  backtest -start 2023-01-01 -end 2024-01-01 -top 5 -freq 5")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
}
