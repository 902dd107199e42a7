package data

import (
	"sort"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

type panelKey struct {
	day    time.Time
	symbol string
}

// Panel holds daily bars for many symbols, addressable by (date, symbol).
// It is built once per run and read-only afterwards.
type Panel struct {
	bars    map[panelKey]types.OHLCV
	daySet  map[time.Time]struct{}
	symSet  map[string]struct{}
	days    []time.Time
	symbols []string
	dirty   bool
}

// NewPanel creates an empty panel.
func NewPanel() *Panel {
	return &Panel{
		bars:   make(map[panelKey]types.OHLCV),
		daySet: make(map[time.Time]struct{}),
		symSet: make(map[string]struct{}),
	}
}

// Add inserts or replaces the bar for (bar.Timestamp, bar.Symbol).
func (p *Panel) Add(bar types.Bar) {
	day := types.Day(bar.Timestamp)
	bar.Timestamp = day
	p.bars[panelKey{day: day, symbol: bar.Symbol}] = bar.OHLCV
	p.daySet[day] = struct{}{}
	p.symSet[bar.Symbol] = struct{}{}
	p.dirty = true
}

func (p *Panel) refresh() {
	if !p.dirty {
		return
	}
	p.days = make([]time.Time, 0, len(p.daySet))
	for d := range p.daySet {
		p.days = append(p.days, d)
	}
	sort.Slice(p.days, func(i, j int) bool { return p.days[i].Before(p.days[j]) })

	p.symbols = make([]string, 0, len(p.symSet))
	for s := range p.symSet {
		p.symbols = append(p.symbols, s)
	}
	sort.Strings(p.symbols)
	p.dirty = false
}

// Empty reports whether the panel holds no bars.
func (p *Panel) Empty() bool {
	return len(p.bars) == 0
}

// Len returns the number of (date, symbol) bars held.
func (p *Panel) Len() int {
	return len(p.bars)
}

// Days returns all distinct trading days in ascending order.
func (p *Panel) Days() []time.Time {
	p.refresh()
	return p.days
}

// TradingDays returns the trading days within [start, end], ascending.
func (p *Panel) TradingDays(start, end time.Time) []time.Time {
	p.refresh()
	start, end = types.Day(start), types.Day(end)
	out := make([]time.Time, 0, len(p.days))
	for _, d := range p.days {
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Symbols returns all distinct symbols in ascending order.
func (p *Panel) Symbols() []string {
	p.refresh()
	return p.symbols
}

// Bar returns the bar for (day, symbol) if present.
func (p *Panel) Bar(day time.Time, symbol string) (types.OHLCV, bool) {
	b, ok := p.bars[panelKey{day: types.Day(day), symbol: symbol}]
	return b, ok
}

// Close returns the closing price for (day, symbol) if present.
func (p *Panel) Close(day time.Time, symbol string) (float64, bool) {
	b, ok := p.Bar(day, symbol)
	if !ok {
		return 0, false
	}
	return b.Close, true
}

// ClosesOn returns symbol -> close for every symbol with a bar on day.
func (p *Panel) ClosesOn(day time.Time) map[string]float64 {
	p.refresh()
	day = types.Day(day)
	out := make(map[string]float64)
	for _, sym := range p.symbols {
		if b, ok := p.bars[panelKey{day: day, symbol: sym}]; ok {
			out[sym] = b.Close
		}
	}
	return out
}

// Without returns a copy of the panel with the given symbols removed. It is
// used to strip index rows out of a combined fetch before factor ranking.
func (p *Panel) Without(symbols ...string) *Panel {
	drop := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		drop[s] = struct{}{}
	}
	out := NewPanel()
	for key, bar := range p.bars {
		if _, skip := drop[key.symbol]; skip {
			continue
		}
		out.Add(types.Bar{Symbol: key.symbol, OHLCV: bar})
	}
	return out
}

// Series returns the full ascending bar series for one symbol.
func (p *Panel) Series(symbol string) []types.OHLCV {
	p.refresh()
	out := make([]types.OHLCV, 0, len(p.days))
	for _, d := range p.days {
		if b, ok := p.bars[panelKey{day: d, symbol: symbol}]; ok {
			out = append(out, b)
		}
	}
	return out
}
