// Package backtest replays a single-instrument signal strategy over a
// historical bar series and reports trade-level and equity-level metrics.
package backtest

import (
	"fmt"
	"time"

	"github.com/XanthanL/ashare-quant/internal/strategy"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// Engine drives one strategy over one symbol's bars.
type Engine struct {
	initialBalance float64
	commission     float64
	strategy       strategy.Strategy
	results        *Results
}

// Results aggregates everything one Run produced.
type Results struct {
	TotalReturn   float64
	MaxDrawdown   float64
	SharpeRatio   float64
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	ProfitFactor  float64
	StartBalance  float64
	EndBalance    float64
	Trades        []Trade
	EquityCurve   []EquityPoint
}

// Trade is one round trip. Open positions at the end of the run are
// closed out at the final bar's close.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Shares     int64
	PnL        float64
	Commission float64
	ExitReason string
}

// EquityPoint is one mark-to-market observation of the account.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// NewEngine creates a backtest engine for one strategy run.
func NewEngine(initialBalance, commission float64, strat strategy.Strategy) *Engine {
	return &Engine{
		initialBalance: initialBalance,
		commission:     commission,
		strategy:       strat,
		results: &Results{
			StartBalance: initialBalance,
			Trades:       make([]Trade, 0),
		},
	}
}

// Run replays the strategy over data. Buys put the whole balance into
// whole shares at the bar close; sells flatten the position. The strategy
// sees only bars up to and including the current one.
func (e *Engine) Run(data []types.OHLCV) *Results {
	if len(data) == 0 {
		e.results.EndBalance = e.initialBalance
		return e.results
	}

	balance := e.initialBalance
	var shares int64
	var open *Trade
	maxEquity := balance
	warmup := e.strategy.WarmupPeriod()

	for i := warmup; i < len(data); i++ {
		window := data[:i+1]
		price := data[i].Close

		decision, err := e.strategy.Evaluate(window)
		if err != nil || decision.Action == strategy.ActionHold {
			e.mark(data[i].Timestamp, balance, shares, price, &maxEquity)
			continue
		}

		switch decision.Action {
		case strategy.ActionBuy:
			if shares == 0 && price > 0 {
				qty := int64((balance / price) * (1 - e.commission))
				cost := float64(qty) * price * (1 + e.commission)
				if qty > 0 && cost <= balance {
					balance -= cost
					shares = qty
					open = &Trade{
						EntryTime:  data[i].Timestamp,
						EntryPrice: price,
						Shares:     qty,
						Commission: float64(qty) * price * e.commission,
					}
				}
			}
		case strategy.ActionSell:
			if shares > 0 {
				balance += e.closeOut(open, shares, price, data[i].Timestamp, decision.Reason)
				shares = 0
				open = nil
			}
		}

		e.mark(data[i].Timestamp, balance, shares, price, &maxEquity)
	}

	final := data[len(data)-1]
	if shares > 0 {
		balance += e.closeOut(open, shares, final.Close, final.Timestamp, "end of data")
		shares = 0
	}

	e.results.EndBalance = balance
	e.results.TotalReturn = (balance - e.initialBalance) / e.initialBalance
	e.results.UpdateMetrics()
	return e.results
}

// closeOut sells the full position, records the completed trade, and
// returns the net proceeds.
func (e *Engine) closeOut(open *Trade, shares int64, price float64, ts time.Time, reason string) float64 {
	proceeds := float64(shares) * price * (1 - e.commission)
	if open != nil {
		open.ExitTime = ts
		open.ExitPrice = price
		open.ExitReason = reason
		open.Commission += float64(shares) * price * e.commission
		open.PnL = proceeds - float64(shares)*open.EntryPrice*(1+e.commission)
		e.results.Trades = append(e.results.Trades, *open)
	}
	return proceeds
}

// mark appends an equity point and updates the running drawdown.
func (e *Engine) mark(ts time.Time, balance float64, shares int64, price float64, maxEquity *float64) {
	equity := balance + float64(shares)*price
	e.results.EquityCurve = append(e.results.EquityCurve, EquityPoint{Timestamp: ts, Equity: equity})
	if equity > *maxEquity {
		*maxEquity = equity
	}
	if *maxEquity > 0 {
		dd := (*maxEquity - equity) / *maxEquity
		if dd > e.results.MaxDrawdown {
			e.results.MaxDrawdown = dd
		}
	}
}

// PrintSummary writes a plain-text digest to stdout.
func (r *Results) PrintSummary() {
	fmt.Printf("=== Backtest Results ===\n")
	fmt.Printf("Initial Balance: ¥%.2f\n", r.StartBalance)
	fmt.Printf("Final Balance: ¥%.2f\n", r.EndBalance)
	fmt.Printf("Total Return: %.2f%%\n", r.TotalReturn*100)
	fmt.Printf("Max Drawdown: %.2f%%\n", r.MaxDrawdown*100)
	fmt.Printf("Total Trades: %d\n", r.TotalTrades)
	fmt.Printf("Profit Factor: %.2f\n", r.ProfitFactor)
}
