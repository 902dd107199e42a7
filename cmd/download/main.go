package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/XanthanL/ashare-quant/internal/config"
	"github.com/XanthanL/ashare-quant/internal/downloader"
	"github.com/XanthanL/ashare-quant/internal/monitoring"
	"github.com/XanthanL/ashare-quant/pkg/data"
)

const (
	AppName    = "A-Share Data Downloader"
	AppVersion = "1.0.0"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "Comma-separated stock symbols to update")
	symbolsFile := flag.String("symbols-file", "", "File with one symbol per line")
	dbPath := flag.String("db", "", "Path to sqlite database, overrides DATABASE_PATH")
	workers := flag.Int("workers", 0, "Concurrent download workers, overrides DOWNLOAD_WORKERS")
	withIndex := flag.Bool("index", true, "Also refresh the market index series")
	importDir := flag.String("import-csv", "", "Import CSV files from this directory instead of downloading")
	status := flag.Bool("status", false, "Print database status and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	cfg := config.Load()
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *workers > 0 {
		cfg.Download.Workers = *workers
	}

	store, err := data.OpenSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("❌ Failed to open database %s: %v", cfg.Database.Path, err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *status {
		printStatus(ctx, store)
		return
	}

	if *importDir != "" {
		files, rows, err := data.ImportCSVDir(ctx, store, *importDir, data.DefaultCSVFormat)
		if err != nil {
			log.Fatalf("❌ CSV import failed: %v", err)
		}
		log.Printf("✅ Imported %d rows from %d files", rows, files)
		return
	}

	symbols, err := resolveSymbols(ctx, store, *symbolsFlag, *symbolsFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if len(symbols) == 0 && !*withIndex {
		log.Fatalf("❌ Nothing to do: no symbols given and -index=false")
	}

	dl := downloader.New(downloader.NewEastMoneyClient(), store)

	if len(symbols) > 0 {
		summary := dl.UpdateAll(ctx, symbols, cfg.Download.Workers)
		for _, res := range summary.Results {
			monitoring.RecordDownload(string(res.Status))
		}
	}

	if *withIndex {
		res := dl.UpdateIndex(ctx, cfg.Download.IndexSymbol)
		monitoring.RecordDownload(string(res.Status))
		switch res.Status {
		case downloader.StatusFailed:
			log.Fatalf("❌ Index download failed: %v", res.Err)
		case downloader.StatusSuccess:
			log.Printf("✅ Index %s updated, %d records", cfg.Download.IndexSymbol, res.RecordsSaved)
		default:
			log.Printf("ℹ️ Index %s: %s", cfg.Download.IndexSymbol, res.Status)
		}
	}
}

// resolveSymbols merges the -symbols list, the -symbols-file contents, and
// falls back to every symbol already in the store.
func resolveSymbols(ctx context.Context, store *data.SQLiteStore, inline, file string) ([]string, error) {
	var symbols []string
	for _, sym := range strings.Split(inline, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}

	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read symbols file: %w", err)
		}
		for _, line := range strings.Split(string(raw), "\n") {
			if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
				symbols = append(symbols, line)
			}
		}
	}

	if len(symbols) > 0 {
		return symbols, nil
	}

	stored, err := store.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored symbols: %w", err)
	}
	if len(stored) > 0 {
		log.Printf("ℹ️ No symbols given, refreshing all %d stored symbols", len(stored))
	}
	return stored, nil
}

func printStatus(ctx context.Context, store *data.SQLiteStore) {
	st, err := store.GetStatus(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read database status: %v", err)
	}
	fmt.Printf("Total records:    %d\n", st.TotalRows)
	fmt.Printf("Distinct symbols: %d\n", st.Symbols)
	symbols := make([]string, 0, len(st.LatestBySymbol))
	for sym := range st.LatestBySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		fmt.Printf("  %-10s latest %s\n", sym, st.LatestBySymbol[sym].Format("2006-01-02"))
	}
}
