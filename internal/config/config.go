// Package config loads runtime settings from the environment and backtest
// parameters from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven runtime settings.
type Config struct {
	Environment string
	LogLevel    string

	Database struct {
		Path string
	}

	Download struct {
		Workers     int
		IndexSymbol string
	}

	Watch struct {
		Symbol   string
		Interval time.Duration
		LogDir   string
	}

	Telegram struct {
		BotToken string
		ChatID   string
	}

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}
}

// Load reads .env if present, then builds the config from the environment.
func Load() *Config {
	// Missing .env is fine, real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
	cfg.Database.Path = getEnv("DATABASE_PATH", "data/stock_data.db")
	cfg.Download.Workers = getEnvInt("DOWNLOAD_WORKERS", 5)
	cfg.Download.IndexSymbol = getEnv("INDEX_SYMBOL", "sh000300")
	cfg.Watch.Symbol = getEnv("WATCH_SYMBOL", "600519")
	cfg.Watch.Interval = getEnvDuration("WATCH_INTERVAL", time.Minute)
	cfg.Watch.LogDir = getEnv("WATCH_LOG_DIR", "logs")
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", "")
	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 8080)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 8081)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
