package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/XanthanL/ashare-quant/internal/strategy"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// scriptedStrategy replays a fixed action per bar index, HOLD by default.
type scriptedStrategy struct {
	actions map[int]strategy.TradeAction
	warmup  int
	calls   int
}

func (s *scriptedStrategy) GetName() string   { return "scripted" }
func (s *scriptedStrategy) WarmupPeriod() int { return s.warmup }

func (s *scriptedStrategy) Evaluate(data []types.OHLCV) (*strategy.TradeDecision, error) {
	s.calls++
	action := strategy.ActionHold
	if a, ok := s.actions[len(data)-1]; ok {
		action = a
	}
	return &strategy.TradeDecision{
		Action:    action,
		Reason:    "scripted",
		Timestamp: data[len(data)-1].Timestamp,
	}, nil
}

func barsFromCloses(closes []float64) []types.OHLCV {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = types.OHLCV{Close: c, Timestamp: base.AddDate(0, 0, i)}
	}
	return out
}

// TestNewEngine tests initial engine state.
func TestNewEngine(t *testing.T) {
	strat := &scriptedStrategy{warmup: 1}
	engine := NewEngine(10000, 0.001, strat)

	assert.Equal(t, 10000.0, engine.initialBalance)
	assert.Equal(t, 0.001, engine.commission)
	assert.Equal(t, 10000.0, engine.results.StartBalance)
	assert.Empty(t, engine.results.Trades)
}

// TestEngine_Run_EmptyData tests the empty-input edge case.
func TestEngine_Run_EmptyData(t *testing.T) {
	engine := NewEngine(10000, 0.001, &scriptedStrategy{warmup: 1})
	results := engine.Run(nil)

	assert.Equal(t, 10000.0, results.EndBalance)
	assert.Equal(t, 0.0, results.TotalReturn)
	assert.Equal(t, 0, results.TotalTrades)
}

// TestEngine_Run_WarmupSkipped tests that the strategy never sees fewer
// bars than its warmup.
func TestEngine_Run_WarmupSkipped(t *testing.T) {
	strat := &scriptedStrategy{warmup: 5}
	engine := NewEngine(10000, 0, strat)
	engine.Run(barsFromCloses([]float64{1, 2, 3, 4, 5, 6, 7}))

	// Bars 5 and 6 only.
	assert.Equal(t, 2, strat.calls)
}

// TestEngine_Run_RoundTrip tests one whole-share buy then sell.
func TestEngine_Run_RoundTrip(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{2: strategy.ActionBuy, 5: strategy.ActionSell},
	}
	engine := NewEngine(10000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{100, 100, 100, 110, 120, 130, 130}))

	assert.Equal(t, 1, results.TotalTrades)
	trade := results.Trades[0]
	assert.Equal(t, int64(100), trade.Shares)
	assert.Equal(t, 100.0, trade.EntryPrice)
	assert.Equal(t, 130.0, trade.ExitPrice)
	assert.InDelta(t, 3000.0, trade.PnL, 1e-9)
	assert.InDelta(t, 13000.0, results.EndBalance, 1e-9)
	assert.InDelta(t, 0.3, results.TotalReturn, 1e-9)
	assert.Equal(t, 1, results.WinningTrades)
}

// TestEngine_Run_WholeShares tests that fractional shares are never
// bought.
func TestEngine_Run_WholeShares(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{1: strategy.ActionBuy},
	}
	engine := NewEngine(1000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{333, 333, 333}))

	assert.Equal(t, 1, results.TotalTrades)
	assert.Equal(t, int64(3), results.Trades[0].Shares)
	// 1 remains uninvested: 1000 - 3*333.
	assert.InDelta(t, 1000.0, results.EndBalance, 1e-9)
}

// TestEngine_Run_UnaffordablePrice tests that a price above the balance
// produces no trade.
func TestEngine_Run_UnaffordablePrice(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{1: strategy.ActionBuy},
	}
	engine := NewEngine(1000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{1e6, 1e6, 1e6}))

	assert.Equal(t, 0, results.TotalTrades)
	assert.Equal(t, 1000.0, results.EndBalance)
}

// TestEngine_Run_OpenPositionClosedAtEnd tests the final-bar close-out of
// a still-open position.
func TestEngine_Run_OpenPositionClosedAtEnd(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{1: strategy.ActionBuy},
	}
	engine := NewEngine(10000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{100, 100, 110, 120}))

	assert.Equal(t, 1, results.TotalTrades)
	trade := results.Trades[0]
	assert.Equal(t, "end of data", trade.ExitReason)
	assert.Equal(t, 120.0, trade.ExitPrice)
	assert.InDelta(t, 12000.0, results.EndBalance, 1e-9)
}

// TestEngine_Run_CommissionImpact tests that commission strictly reduces
// proceeds.
func TestEngine_Run_CommissionImpact(t *testing.T) {
	script := map[int]strategy.TradeAction{1: strategy.ActionBuy, 3: strategy.ActionSell}
	data := barsFromCloses([]float64{100, 100, 110, 120, 120})

	free := NewEngine(10000, 0, &scriptedStrategy{warmup: 1, actions: script})
	freeResults := free.Run(data)

	paid := NewEngine(10000, 0.001, &scriptedStrategy{warmup: 1, actions: script})
	paidResults := paid.Run(data)

	assert.Less(t, paidResults.EndBalance, freeResults.EndBalance)
	assert.Greater(t, paidResults.Trades[0].Commission, 0.0)
}

// TestEngine_Run_DrawdownTracked tests max drawdown over a dip.
func TestEngine_Run_DrawdownTracked(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{1: strategy.ActionBuy},
	}
	engine := NewEngine(10000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{100, 100, 120, 60, 100}))

	// Equity peaked at 12000 then dipped to 6000.
	assert.InDelta(t, 0.5, results.MaxDrawdown, 1e-9)
	assert.NotEmpty(t, results.EquityCurve)
}

// TestEngine_Run_SellWithoutPosition tests that SELL with nothing held is
// a no-op.
func TestEngine_Run_SellWithoutPosition(t *testing.T) {
	strat := &scriptedStrategy{
		warmup:  1,
		actions: map[int]strategy.TradeAction{1: strategy.ActionSell},
	}
	engine := NewEngine(10000, 0, strat)
	results := engine.Run(barsFromCloses([]float64{100, 100, 100}))

	assert.Equal(t, 0, results.TotalTrades)
	assert.Equal(t, 10000.0, results.EndBalance)
}
