package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XanthanL/ashare-quant/internal/backtest"
	"github.com/XanthanL/ashare-quant/internal/portfolio"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// TestWriteHistoryCSV tests the daily history export.
func TestWriteHistoryCSV(t *testing.T) {
	history := portfolio.History{
		{Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), TotalValue: 100000, Cash: 100000},
		{Date: time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), TotalValue: 101250.5, Cash: 1250.5},
	}
	path := filepath.Join(t.TempDir(), "history.csv")

	require.NoError(t, WriteHistoryCSV(history, path))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "total_value", "cash"}, rows[0])
	assert.Equal(t, []string{"2023-01-03", "100000.00", "100000.00"}, rows[1])
	assert.Equal(t, []string{"2023-01-04", "101250.50", "1250.50"}, rows[2])
}

// TestWriteHistoryCSV_CreatesDir tests that parent directories are created.
func TestWriteHistoryCSV_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "history.csv")
	require.NoError(t, WriteHistoryCSV(portfolio.History{}, path))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
}

// TestWriteTradesCSV tests the completed-trade export.
func TestWriteTradesCSV(t *testing.T) {
	results := &backtest.Results{Trades: []backtest.Trade{
		{
			EntryTime:  time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			ExitTime:   time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC),
			EntryPrice: 10.5,
			ExitPrice:  11.25,
			Shares:     900,
			PnL:        675,
			Commission: 5.87,
			ExitReason: "SELL signal",
		},
	}}
	path := filepath.Join(t.TempDir(), "trades.csv")

	require.NoError(t, WriteTradesCSV(results, path))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"entry_time", "exit_time", "entry_price", "exit_price",
		"shares", "pnl", "commission", "exit_reason",
	}, rows[0])
	assert.Equal(t, []string{
		"2023-02-01", "2023-02-10", "10.5000", "11.2500",
		"900", "675.00", "5.87", "SELL signal",
	}, rows[1])
}
