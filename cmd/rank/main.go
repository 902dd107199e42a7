package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/XanthanL/ashare-quant/internal/alpha"
	"github.com/XanthanL/ashare-quant/internal/factor"
	"github.com/XanthanL/ashare-quant/pkg/data"
	"github.com/XanthanL/ashare-quant/pkg/reporting"
)

const (
	AppName    = "A-Share Alpha Ranker"
	AppVersion = "1.0.0"

	// lookbackDays of history behind the analysis date, enough for the
	// 20-day factors with margin for holidays.
	lookbackDays = 90
)

func main() {
	dbPath := flag.String("db", "data/stock_data.db", "Path to sqlite price database")
	topK := flag.Int("top", 10, "Number of stocks to report")
	asOfStr := flag.String("date", "", "Analysis date (YYYY-MM-DD), defaults to today")
	indexSymbol := flag.String("index", "sh000300", "Index symbol excluded from ranking")
	xlsxPath := flag.String("xlsx", "", "Write the ranking to this Excel file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	asOf := time.Now()
	if *asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", *asOfStr)
		if err != nil {
			log.Fatalf("❌ Bad -date %q: %v", *asOfStr, err)
		}
		asOf = parsed
	}

	store, err := data.OpenSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("❌ Failed to open database %s: %v", *dbPath, err)
	}
	defer store.Close()

	ctx := context.Background()
	panel, err := store.GetPanel(ctx, asOf.AddDate(0, 0, -lookbackDays), asOf)
	if err != nil {
		log.Fatalf("❌ Failed to load price panel: %v", err)
	}
	universe := panel.Without(*indexSymbol)

	factors := factor.Compute(universe)
	selection := alpha.Select(factors, *topK, asOf)

	reporting.PrintRanking(selection)

	if *xlsxPath != "" && !selection.Empty() {
		if err := reporting.WriteRankingXLSX(selection, *xlsxPath); err != nil {
			log.Fatalf("❌ Failed to write Excel ranking: %v", err)
		}
		log.Printf("💾 Ranking written to %s", *xlsxPath)
	}
}
