package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/XanthanL/ashare-quant/internal/backtest"
	"github.com/XanthanL/ashare-quant/internal/portfolio"
)

// WriteHistoryCSV writes the daily portfolio history to a CSV file.
func WriteHistoryCSV(history portfolio.History, path string) error {
	f, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "total_value", "cash"}); err != nil {
		return err
	}
	for _, snap := range history {
		row := []string{
			snap.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", snap.TotalValue),
			fmt.Sprintf("%.2f", snap.Cash),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTradesCSV writes completed signal backtest trades to a CSV file.
func WriteTradesCSV(results *backtest.Results, path string) error {
	f, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"entry_time", "exit_time", "entry_price", "exit_price",
		"shares", "pnl", "commission", "exit_reason",
	}); err != nil {
		return err
	}
	for _, t := range results.Trades {
		row := []string{
			t.EntryTime.Format("2006-01-02"),
			t.ExitTime.Format("2006-01-02"),
			fmt.Sprintf("%.4f", t.EntryPrice),
			fmt.Sprintf("%.4f", t.ExitPrice),
			fmt.Sprintf("%d", t.Shares),
			fmt.Sprintf("%.2f", t.PnL),
			fmt.Sprintf("%.2f", t.Commission),
			t.ExitReason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func createWithDir(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
