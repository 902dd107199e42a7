package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/XanthanL/ashare-quant/internal/config"
	"github.com/XanthanL/ashare-quant/internal/portfolio"
	"github.com/XanthanL/ashare-quant/pkg/data"
	"github.com/XanthanL/ashare-quant/pkg/reporting"
)

const (
	AppName    = "A-Share Portfolio Backtest"
	AppVersion = "1.0.0"

	DefaultDBPath         = "data/stock_data.db"
	DefaultRebalanceFreq  = 5
	DefaultTopK           = 5
	DefaultInitialCapital = 1000000.0
	DefaultCommission     = 0.0003
	DefaultStopLoss       = 0.08
	DefaultIndexSymbol    = "sh000300"

	// prefetchDays of history before the start date so the 20-day factors
	// and the index SMA are warm on day one.
	prefetchDays = 90
)

func main() {
	flags := NewBacktestFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	if err := ValidateBacktestFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	loadEnvironment(*flags.EnvFile)

	cfg, indexSymbol, err := resolveConfig(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	store, err := data.OpenSQLiteStore(*flags.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open database %s: %v", *flags.DBPath, err)
	}
	defer store.Close()

	ctx := context.Background()
	fetchStart := cfg.StartDate.AddDate(0, 0, -prefetchDays)

	panel, err := store.GetPanel(ctx, fetchStart, cfg.EndDate)
	if err != nil {
		log.Fatalf("❌ Failed to load price panel: %v", err)
	}

	indexSeries, err := store.GetSeries(ctx, indexSymbol, fetchStart, cfg.EndDate)
	if err != nil {
		log.Fatalf("❌ Failed to load index series: %v", err)
	}
	if len(indexSeries) == 0 {
		log.Printf("⚠️ no index data for %s, market filter disabled", indexSymbol)
	}

	// The index lives in the same table as the stocks; it must not be
	// ranked or traded.
	universe := panel.Without(indexSymbol)

	reporting.PrintPortfolioConfig(cfg, indexSymbol, len(universe.Symbols()))

	engine, err := portfolio.NewEngine(cfg)
	if err != nil {
		log.Fatalf("❌ Invalid backtest parameters: %v", err)
	}

	started := time.Now()
	history, err := engine.Run(universe, indexSeries)
	if err != nil {
		log.Fatalf("❌ Backtest failed: %v", err)
	}
	log.Printf("✅ Backtest finished in %s", time.Since(started).Round(time.Millisecond))

	reporting.PrintPortfolioSummary(cfg, history)

	if *flags.HistoryCSV != "" {
		if err := reporting.WriteHistoryCSV(history, *flags.HistoryCSV); err != nil {
			log.Fatalf("❌ Failed to write history CSV: %v", err)
		}
		log.Printf("💾 History written to %s", *flags.HistoryCSV)
	}
	if *flags.ExcelReport != "" {
		if err := reporting.WriteBacktestXLSX(cfg, history, *flags.ExcelReport); err != nil {
			log.Fatalf("❌ Failed to write Excel report: %v", err)
		}
		log.Printf("💾 Excel report written to %s", *flags.ExcelReport)
	}
}

// resolveConfig builds the engine config from the YAML file when given,
// otherwise from flags.
func resolveConfig(flags *BacktestFlags) (portfolio.Config, string, error) {
	if *flags.ConfigFile != "" {
		file, cfg, err := config.LoadBacktestFile(*flags.ConfigFile)
		if err != nil {
			return portfolio.Config{}, "", err
		}
		indexSymbol := file.IndexSymbol
		if indexSymbol == "" {
			indexSymbol = DefaultIndexSymbol
		}
		return cfg, indexSymbol, nil
	}

	start, _ := time.Parse("2006-01-02", *flags.StartDate)
	end, _ := time.Parse("2006-01-02", *flags.EndDate)
	return portfolio.Config{
		StartDate:      start,
		EndDate:        end,
		RebalanceFreq:  *flags.RebalanceFreq,
		TopK:           *flags.TopK,
		InitialCapital: *flags.InitialCapital,
		Commission:     *flags.Commission,
		StopLossPct:    *flags.StopLoss,
	}, *flags.IndexSymbol, nil
}

func loadEnvironment(envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("⚠️ Could not load env file %s: %v", envFile, err)
		}
		return
	}
	_ = godotenv.Load()
}
