package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests the built-in defaults with a clean environment.
func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATABASE_PATH", "DOWNLOAD_WORKERS",
		"INDEX_SYMBOL", "WATCH_SYMBOL", "WATCH_INTERVAL", "WATCH_LOG_DIR",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"PROMETHEUS_PORT", "HEALTH_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/stock_data.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Download.Workers)
	assert.Equal(t, "sh000300", cfg.Download.IndexSymbol)
	assert.Equal(t, "600519", cfg.Watch.Symbol)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "logs", cfg.Watch.LogDir)
	assert.Empty(t, cfg.Telegram.BotToken)
	assert.Equal(t, 8080, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 8081, cfg.Monitoring.HealthPort)
}

// TestLoad_EnvOverrides tests that set variables win over defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/var/lib/quant/stocks.db")
	t.Setenv("DOWNLOAD_WORKERS", "12")
	t.Setenv("WATCH_INTERVAL", "5m")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "/var/lib/quant/stocks.db", cfg.Database.Path)
	assert.Equal(t, 12, cfg.Download.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval)
}

// TestLoad_BadValuesFallBack tests that unparseable numbers and durations
// fall back to defaults.
func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("DOWNLOAD_WORKERS", "lots")
	t.Setenv("WATCH_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 5, cfg.Download.Workers)
	assert.Equal(t, time.Minute, cfg.Watch.Interval)
}

func writeBacktestYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadBacktestFile tests a well-formed YAML backtest config.
func TestLoadBacktestFile(t *testing.T) {
	path := writeBacktestYAML(t, `
start_date: "2023-01-01"
end_date: "2023-12-31"
rebalance_freq: 5
top_k: 5
initial_capital: 1000000
commission: 0.0003
stop_loss_pct: 0.08
index_symbol: sh000300
symbols:
  - "600519"
  - "000001"
`)

	file, cfg, err := LoadBacktestFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sh000300", file.IndexSymbol)
	assert.Equal(t, []string{"600519", "000001"}, file.Symbols)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), cfg.EndDate)
	assert.Equal(t, 5, cfg.RebalanceFreq)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 1000000.0, cfg.InitialCapital)
	assert.Equal(t, 0.0003, cfg.Commission)
	assert.Equal(t, 0.08, cfg.StopLossPct)
}

// TestLoadBacktestFile_MissingFile tests the read error path.
func TestLoadBacktestFile_MissingFile(t *testing.T) {
	_, _, err := LoadBacktestFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestLoadBacktestFile_BadYAML tests the parse error path.
func TestLoadBacktestFile_BadYAML(t *testing.T) {
	path := writeBacktestYAML(t, "start_date: [unclosed")
	_, _, err := LoadBacktestFile(path)
	assert.Error(t, err)
}

// TestLoadBacktestFile_BadDates tests date validation.
func TestLoadBacktestFile_BadDates(t *testing.T) {
	path := writeBacktestYAML(t, `
start_date: "yesterday"
end_date: "2023-12-31"
`)
	_, _, err := LoadBacktestFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")

	path = writeBacktestYAML(t, `
start_date: "2023-01-01"
end_date: "2023-13-45"
`)
	_, _, err = LoadBacktestFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}
