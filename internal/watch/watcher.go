// Package watch polls fresh daily bars for one symbol and logs strategy
// signals, a paper-trading style live monitor.
package watch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/XanthanL/ashare-quant/internal/downloader"
	"github.com/XanthanL/ashare-quant/internal/logger"
	"github.com/XanthanL/ashare-quant/internal/monitoring"
	"github.com/XanthanL/ashare-quant/internal/notifications"
	"github.com/XanthanL/ashare-quant/internal/strategy"
)

// lookbackDays covers every supported strategy's warmup with margin.
const lookbackDays = 100

// Watcher periodically re-fetches a symbol's recent bars and evaluates a
// strategy on them.
type Watcher struct {
	symbol   string
	fetcher  downloader.Fetcher
	strategy strategy.Strategy
	interval time.Duration
	health   *monitoring.HealthChecker
	notifier notifications.Notifier
	fileLog  *logger.Logger
}

// SetHealthChecker wires a health checker that is updated on every poll.
func (w *Watcher) SetHealthChecker(h *monitoring.HealthChecker) {
	w.health = h
}

// SetNotifier wires an alert channel for BUY and SELL signals.
func (w *Watcher) SetNotifier(n notifications.Notifier) {
	w.notifier = n
}

// SetFileLogger wires a per-symbol session log.
func (w *Watcher) SetFileLogger(l *logger.Logger) {
	w.fileLog = l
}

// New creates a watcher polling symbol at the given interval.
func New(symbol string, fetcher downloader.Fetcher, strat strategy.Strategy, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		symbol:   symbol,
		fetcher:  fetcher,
		strategy: strat,
		interval: interval,
	}
}

// Run polls until ctx is cancelled. The first check happens immediately.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("👀 watching %s with %s strategy, checking every %s",
		w.symbol, w.strategy.GetName(), w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Printf("👋 stopping watch on %s", w.symbol)
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	bars, err := w.fetcher.FetchDaily(ctx, w.symbol, start, end)
	if err != nil {
		log.Printf("⚠️ failed to fetch %s: %v", w.symbol, err)
		monitoring.RecordError("fetch")
		w.markError(err)
		return
	}
	if len(bars) == 0 {
		log.Printf("⚠️ no data returned for %s, skipping check", w.symbol)
		monitoring.RecordError("no_data")
		return
	}

	latest := bars[len(bars)-1]
	decision, err := w.strategy.Evaluate(bars)
	if err != nil {
		log.Printf("⚠️ %s evaluation failed: %v", w.symbol, err)
		monitoring.RecordError("strategy")
		w.markError(err)
		return
	}

	monitoring.UpdatePrice(w.symbol, latest.Close)
	monitoring.RecordSignal(w.symbol, decision.Action.String())
	if w.health != nil {
		w.health.MarkCheck(latest.Close)
	}
	if w.fileLog != nil {
		w.fileLog.Signal(decision.Action.String(), latest.Close, decision.Reason)
	}

	switch decision.Action {
	case strategy.ActionBuy:
		log.Printf("🟢 %s BUY signal at %.2f: %s", w.symbol, latest.Close, decision.Reason)
		w.notify(decision.Action, latest.Close, decision.Reason)
	case strategy.ActionSell:
		log.Printf("🔴 %s SELL signal at %.2f: %s", w.symbol, latest.Close, decision.Reason)
		w.notify(decision.Action, latest.Close, decision.Reason)
	default:
		log.Printf("⚪ %s HOLD at %.2f: %s", w.symbol, latest.Close, decision.Reason)
	}
}

func (w *Watcher) notify(action strategy.TradeAction, price float64, reason string) {
	if w.notifier == nil {
		return
	}
	msg := fmt.Sprintf("%s %s at ¥%.2f\n%s", w.symbol, action.String(), price, reason)
	if err := w.notifier.SendAlert(notifications.LevelSignal, msg); err != nil {
		log.Printf("⚠️ failed to send %s alert for %s: %v", action.String(), w.symbol, err)
		monitoring.RecordError("notify")
	}
}

func (w *Watcher) markError(err error) {
	if w.health != nil {
		w.health.MarkError(err.Error())
	}
	if w.fileLog != nil {
		w.fileLog.Error("%v", err)
	}
}
