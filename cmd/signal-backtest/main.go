package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/XanthanL/ashare-quant/internal/backtest"
	"github.com/XanthanL/ashare-quant/internal/strategy"
	"github.com/XanthanL/ashare-quant/pkg/data"
	"github.com/XanthanL/ashare-quant/pkg/reporting"
)

const (
	AppName    = "A-Share Signal Backtest"
	AppVersion = "1.0.0"

	DefaultInitialBalance = 100000.0
	DefaultCommission     = 0.0003
)

func main() {
	dbPath := flag.String("db", "data/stock_data.db", "Path to sqlite price database")
	symbol := flag.String("symbol", "600519", "Stock symbol to backtest")
	stratName := flag.String("strategy", "rsi", "Strategy (rsi, dual-ma)")
	startStr := flag.String("start", "", "Start date (YYYY-MM-DD)")
	endStr := flag.String("end", "", "End date (YYYY-MM-DD), defaults to today")
	balance := flag.Float64("balance", DefaultInitialBalance, "Initial balance")
	commission := flag.Float64("commission", DefaultCommission, "Commission rate per trade")

	rsiPeriod := flag.Int("rsi-period", 14, "RSI period")
	rsiLow := flag.Float64("rsi-low", 30, "RSI oversold threshold")
	rsiHigh := flag.Float64("rsi-high", 70, "RSI overbought threshold")
	maShort := flag.Int("ma-short", 5, "Short SMA period")
	maLong := flag.Int("ma-long", 20, "Long SMA period")

	tradesCSV := flag.String("csv", "", "Write completed trades to this CSV file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	strat, err := buildStrategy(*stratName, *rsiPeriod, *rsiLow, *rsiHigh, *maShort, *maLong)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	end := time.Now()
	if *endStr != "" {
		if end, err = time.Parse("2006-01-02", *endStr); err != nil {
			log.Fatalf("❌ Bad -end date %q: %v", *endStr, err)
		}
	}
	start := end.AddDate(-1, 0, 0)
	if *startStr != "" {
		if start, err = time.Parse("2006-01-02", *startStr); err != nil {
			log.Fatalf("❌ Bad -start date %q: %v", *startStr, err)
		}
	}

	store, err := data.OpenSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("❌ Failed to open database %s: %v", *dbPath, err)
	}
	defer store.Close()

	bars, err := store.GetSeries(context.Background(), *symbol, start, end)
	if err != nil {
		log.Fatalf("❌ Failed to load series for %s: %v", *symbol, err)
	}
	if len(bars) == 0 {
		log.Fatalf("❌ No data for %s in %s..%s", *symbol,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	log.Printf("📈 Backtesting %s on %s over %d bars", strat.GetName(), *symbol, len(bars))

	engine := backtest.NewEngine(*balance, *commission, strat)
	results := engine.Run(bars)

	reporting.PrintSignalResults(results)

	if *tradesCSV != "" {
		if err := reporting.WriteTradesCSV(results, *tradesCSV); err != nil {
			log.Fatalf("❌ Failed to write trades CSV: %v", err)
		}
		log.Printf("💾 Trades written to %s", *tradesCSV)
	}
}

func buildStrategy(name string, rsiPeriod int, rsiLow, rsiHigh float64, maShort, maLong int) (strategy.Strategy, error) {
	switch name {
	case "rsi":
		return strategy.NewRSIStrategy(rsiPeriod, rsiLow, rsiHigh), nil
	case "dual-ma":
		if maShort >= maLong {
			return nil, errors.New("ma-short must be less than ma-long")
		}
		return strategy.NewDualMAStrategy(maShort, maLong), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q, want rsi or dual-ma", name)
	}
}
