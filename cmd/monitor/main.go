package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/XanthanL/ashare-quant/internal/config"
	"github.com/XanthanL/ashare-quant/internal/downloader"
	"github.com/XanthanL/ashare-quant/internal/logger"
	"github.com/XanthanL/ashare-quant/internal/monitoring"
	"github.com/XanthanL/ashare-quant/internal/notifications"
	"github.com/XanthanL/ashare-quant/internal/strategy"
	"github.com/XanthanL/ashare-quant/internal/watch"
)

const (
	AppName    = "A-Share Live Monitor"
	AppVersion = "1.0.0"
)

func main() {
	symbol := flag.String("symbol", "", "Stock symbol to watch, overrides WATCH_SYMBOL")
	interval := flag.Duration("interval", 0, "Poll interval, overrides WATCH_INTERVAL")
	rsiPeriod := flag.Int("rsi-period", 14, "RSI period")
	rsiLow := flag.Float64("rsi-low", 30, "RSI oversold threshold")
	rsiHigh := flag.Float64("rsi-high", 70, "RSI overbought threshold")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	cfg := config.Load()
	if *symbol != "" {
		cfg.Watch.Symbol = *symbol
	}
	if *interval > 0 {
		cfg.Watch.Interval = *interval
	}

	health := monitoring.NewHealthChecker()
	startServer(cfg.Monitoring.PrometheusPort, "/metrics", monitoring.NewMetricsHandler())
	startServer(cfg.Monitoring.HealthPort, "/health", health)

	strat := strategy.NewRSIStrategy(*rsiPeriod, *rsiLow, *rsiHigh)
	fetcher := downloader.NewEastMoneyClient()
	watcher := watch.New(cfg.Watch.Symbol, fetcher, strat, cfg.Watch.Interval)
	watcher.SetHealthChecker(health)

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		watcher.SetNotifier(notifications.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
		log.Printf("📨 Telegram alerts enabled")
	}

	if cfg.Watch.LogDir != "" {
		fileLog, err := logger.New(cfg.Watch.LogDir, cfg.Watch.Symbol)
		if err != nil {
			log.Printf("⚠️ file logging disabled: %v", err)
		} else {
			defer fileLog.Close()
			watcher.SetFileLogger(fileLog)
			log.Printf("📝 logging to %s", fileLog.Path())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ Watcher stopped: %v", err)
	}
}

func startServer(port int, path string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("⚠️ %s server on :%d stopped: %v", path, port, err)
		}
	}()
}
