// Package portfolio simulates periodic rebalancing of a multi-stock
// portfolio against a historical price panel, with a market-wide trend
// filter and per-position stop losses.
package portfolio

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/XanthanL/ashare-quant/internal/alpha"
	"github.com/XanthanL/ashare-quant/internal/factor"
	"github.com/XanthanL/ashare-quant/internal/indicators"
	"github.com/XanthanL/ashare-quant/pkg/data"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// marketFilterPeriod is the SMA window for the index trend filter.
const marketFilterPeriod = 20

var (
	// ErrNoData reports that the price panel held no rows at all.
	ErrNoData = errors.New("no price data loaded for backtest range")
	// ErrNoTradingDays reports that the requested range contained no
	// trading days.
	ErrNoTradingDays = errors.New("no trading days in backtest range")
)

// Config holds all parameters of one backtest run.
type Config struct {
	StartDate      time.Time
	EndDate        time.Time
	RebalanceFreq  int
	TopK           int
	InitialCapital float64
	Commission     float64
	StopLossPct    float64
}

// Validate rejects configurations before any simulation work begins.
func (c Config) Validate() error {
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("start date %s must be before end date %s",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	}
	if c.RebalanceFreq <= 0 {
		return fmt.Errorf("rebalance frequency must be positive, got: %d", c.RebalanceFreq)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top-k must be positive, got: %d", c.TopK)
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got: %.2f", c.InitialCapital)
	}
	if c.Commission < 0 || c.Commission >= 1 {
		return fmt.Errorf("commission must be in [0, 1), got: %.4f", c.Commission)
	}
	if c.StopLossPct < 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("stop loss must be in [0, 1), got: %.4f", c.StopLossPct)
	}
	return nil
}

// Position is an open holding. CostPrice is the most recent fill price and
// is the stop-loss basis; it is overwritten, not averaged, on repeat buys.
type Position struct {
	Shares    int64
	CostPrice float64
}

// Engine drives the day-by-day portfolio simulation. A single run owns all
// of its state exclusively; engines are cheap and not reusable across runs.
type Engine struct {
	cfg Config

	cash      float64
	positions map[string]*Position
	downtrend bool
}

// NewEngine validates cfg and returns an engine ready for one Run call.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		cash:      cfg.InitialCapital,
		positions: make(map[string]*Position),
	}, nil
}

// indexTrend precomputes the index close and its SMA keyed by trading day,
// plus the ordered day list, for previous-day lookups.
type indexTrend struct {
	days  []time.Time
	close map[time.Time]float64
	sma   map[time.Time]float64
}

func newIndexTrend(series []types.OHLCV) *indexTrend {
	trend := &indexTrend{
		close: make(map[time.Time]float64, len(series)),
		sma:   make(map[time.Time]float64, len(series)),
	}
	closes := make([]float64, len(series))
	for i, bar := range series {
		closes[i] = bar.Close
	}
	smas := indicators.NewSMA(marketFilterPeriod).Series(closes)
	for i, bar := range series {
		day := types.Day(bar.Timestamp)
		trend.days = append(trend.days, day)
		trend.close[day] = bar.Close
		if !math.IsNaN(smas[i]) {
			trend.sma[day] = smas[i]
		}
	}
	sort.Slice(trend.days, func(i, j int) bool { return trend.days[i].Before(trend.days[j]) })
	return trend
}

// below reports whether the index closed below its SMA on the last index
// day strictly before day. ok is false when the index has no usable
// observation for that day, which disables the filter.
func (t *indexTrend) below(day time.Time) (below, ok bool) {
	if t == nil || len(t.days) == 0 {
		return false, false
	}
	// Latest index day strictly before the simulation day.
	i := sort.Search(len(t.days), func(i int) bool { return !t.days[i].Before(day) })
	if i == 0 {
		return false, false
	}
	prev := t.days[i-1]
	sma, haveSMA := t.sma[prev]
	if !haveSMA {
		return false, false
	}
	return t.close[prev] < sma, true
}

// Run simulates the configured date range over prices, using indexSeries
// for the market trend filter. It returns the daily portfolio history; on
// abort (no data, no trading days) the history is empty and the error
// distinguishes the cause.
func (e *Engine) Run(prices *data.Panel, indexSeries []types.OHLCV) (History, error) {
	if prices == nil || prices.Empty() {
		return nil, ErrNoData
	}
	days := prices.TradingDays(e.cfg.StartDate, e.cfg.EndDate)
	if len(days) == 0 {
		return nil, ErrNoTradingDays
	}

	factors := factor.Compute(prices)
	trend := newIndexTrend(indexSeries)

	history := make(History, 0, len(days)+1)
	history = append(history, Snapshot{
		Date:       days[0].AddDate(0, 0, -1),
		TotalValue: e.cfg.InitialCapital,
		Cash:       e.cfg.InitialCapital,
	})

	for i, day := range days {
		closes := prices.ClosesOn(day)
		if len(closes) == 0 {
			// Placeholder day: carry the previous valuation forward.
			prev := history[len(history)-1]
			history = append(history, Snapshot{Date: day, TotalValue: prev.TotalValue, Cash: prev.Cash})
			continue
		}

		if below, ok := trend.below(day); ok {
			if below {
				if !e.downtrend {
					log.Printf("📉 %s market filter triggered, liquidating %d positions",
						day.Format("2006-01-02"), len(e.positions))
					e.liquidateAll(closes)
					e.downtrend = true
				}
				history = append(history, e.snapshot(day, closes))
				continue
			}
			e.downtrend = false
		}

		e.applyStopLosses(day, closes)

		if i%e.cfg.RebalanceFreq == 0 {
			// Rank with data as of the previous calendar day only, so the
			// decision never sees the current day's close.
			asOf := day.AddDate(0, 0, -1)
			selection := alpha.Select(factors, e.cfg.TopK, asOf)
			e.rebalance(day, selection, closes)
		}

		history = append(history, e.snapshot(day, closes))
	}

	return history, nil
}

// heldSymbols returns open position symbols in ascending order so mutation
// order is deterministic across runs.
func (e *Engine) heldSymbols() []string {
	out := make([]string, 0, len(e.positions))
	for sym := range e.positions {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// sell liquidates the full position at price, crediting proceeds net of
// commission.
func (e *Engine) sell(symbol string, price float64) {
	pos := e.positions[symbol]
	e.cash += float64(pos.Shares) * price * (1 - e.cfg.Commission)
	delete(e.positions, symbol)
}

// liquidateAll closes every position that has a price today. Positions
// without a price cannot be traded and are left open.
func (e *Engine) liquidateAll(closes map[string]float64) {
	for _, sym := range e.heldSymbols() {
		if price, ok := closes[sym]; ok {
			e.sell(sym, price)
		}
	}
}

// applyStopLosses closes any position whose close fell below the stop
// threshold relative to its last fill price.
func (e *Engine) applyStopLosses(day time.Time, closes map[string]float64) {
	if e.cfg.StopLossPct <= 0 {
		return
	}
	for _, sym := range e.heldSymbols() {
		pos := e.positions[sym]
		price, ok := closes[sym]
		if !ok || pos.CostPrice <= 0 {
			continue
		}
		if price < pos.CostPrice*(1-e.cfg.StopLossPct) {
			log.Printf("🛑 %s stop loss on %s: close %.2f < %.2f",
				day.Format("2006-01-02"), sym, price, pos.CostPrice*(1-e.cfg.StopLossPct))
			e.sell(sym, price)
		}
	}
}

// rebalance replaces the held symbol set with the new selection: full exit
// of anything deselected, then equal-weight whole-share buys of the
// selection out of all current cash.
func (e *Engine) rebalance(day time.Time, selection alpha.Selection, closes map[string]float64) {
	log.Printf("🔄 %s rebalance: selected %v", day.Format("2006-01-02"), selection.Symbols())

	// Sell phase. A held symbol without a price today cannot trade and is
	// carried instead of sold.
	for _, sym := range e.heldSymbols() {
		if selection.Contains(sym) {
			continue
		}
		if price, ok := closes[sym]; ok {
			e.sell(sym, price)
		}
	}

	if selection.Empty() || e.cash <= 0 {
		return
	}

	// Buy phase: candidates with a positive price today, in rank order.
	type buyCandidate struct {
		symbol string
		price  float64
	}
	var candidates []buyCandidate
	for _, c := range selection.Candidates {
		if price, ok := closes[c.Symbol]; ok && price > 0 {
			candidates = append(candidates, buyCandidate{symbol: c.Symbol, price: price})
		}
	}
	if len(candidates) == 0 {
		return
	}

	cashPerStock := e.cash / float64(len(candidates))
	for _, c := range candidates {
		// Shares are discounted by commission up front, then the true cost
		// including commission is re-checked against cash. The two
		// adjustments are not exact inverses; the policy is conservative
		// and never overspends.
		shares := int64((cashPerStock / c.price) * (1 - e.cfg.Commission))
		if shares <= 0 {
			continue
		}
		cost := float64(shares) * c.price * (1 + e.cfg.Commission)
		if cost > e.cash {
			continue
		}
		e.cash -= cost
		pos, held := e.positions[c.symbol]
		if !held {
			pos = &Position{}
			e.positions[c.symbol] = pos
		}
		pos.Shares += shares
		pos.CostPrice = c.price
	}
}

// snapshot values the portfolio at today's closes. Holdings without a
// price today contribute zero for this day only.
func (e *Engine) snapshot(day time.Time, closes map[string]float64) Snapshot {
	total := e.cash
	for _, sym := range e.heldSymbols() {
		if price, ok := closes[sym]; ok {
			total += float64(e.positions[sym].Shares) * price
		}
	}
	return Snapshot{Date: day, TotalValue: total, Cash: e.cash}
}
