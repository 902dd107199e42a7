package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/XanthanL/ashare-quant/internal/indicators"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

func closesToBars(closes []float64) []types.OHLCV {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = types.OHLCV{Close: c, Timestamp: base.AddDate(0, 0, i)}
	}
	return out
}

// TestTradeAction_String tests the action labels.
func TestTradeAction_String(t *testing.T) {
	assert.Equal(t, "HOLD", ActionHold.String())
	assert.Equal(t, "BUY", ActionBuy.String())
	assert.Equal(t, "SELL", ActionSell.String())
	assert.Equal(t, "UNKNOWN", TradeAction(99).String())
}

// TestRSIStrategy_BuyOnOversold tests the BUY signal on a falling series.
func TestRSIStrategy_BuyOnOversold(t *testing.T) {
	strat := NewRSIStrategy(14, 30, 70)
	assert.Equal(t, "rsi", strat.GetName())
	assert.Equal(t, 15, strat.WarmupPeriod())

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	bars := closesToBars(closes)

	decision, err := strat.Evaluate(bars)
	assert.NoError(t, err)
	assert.Equal(t, ActionBuy, decision.Action)
	assert.Equal(t, bars[len(bars)-1].Timestamp, decision.Timestamp)
	assert.Contains(t, decision.Reason, "oversold")
}

// TestRSIStrategy_SellOnOverbought tests the SELL signal on a rising
// series.
func TestRSIStrategy_SellOnOverbought(t *testing.T) {
	strat := NewRSIStrategy(14, 30, 70)

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	decision, err := strat.Evaluate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, ActionSell, decision.Action)
	assert.Contains(t, decision.Reason, "overbought")
}

// TestRSIStrategy_HoldNeutral tests the HOLD zone between thresholds.
func TestRSIStrategy_HoldNeutral(t *testing.T) {
	strat := NewRSIStrategy(14, 30, 70)

	closes := make([]float64, 15)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	decision, err := strat.Evaluate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, ActionHold, decision.Action)
}

// TestRSIStrategy_InsufficientData tests the warmup guard.
func TestRSIStrategy_InsufficientData(t *testing.T) {
	strat := NewRSIStrategy(14, 30, 70)
	_, err := strat.Evaluate(closesToBars(make([]float64, 10)))
	assert.ErrorIs(t, err, indicators.ErrInsufficientData)
}

// TestDualMAStrategy_BuyOnGoldenCross tests the BUY on a short-over-long
// crossover.
func TestDualMAStrategy_BuyOnGoldenCross(t *testing.T) {
	strat := NewDualMAStrategy(2, 4)
	assert.Equal(t, "dual-ma", strat.GetName())
	assert.Equal(t, 5, strat.WarmupPeriod())

	// Falling then sharply rising, so the short SMA crosses above the long
	// on the last bar.
	closes := []float64{10, 9, 8, 7, 6, 5, 20}
	decision, err := strat.Evaluate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, ActionBuy, decision.Action)
	assert.Contains(t, decision.Reason, "crossed above")
}

// TestDualMAStrategy_SellOnDeathCross tests the SELL on a short-under-long
// crossover.
func TestDualMAStrategy_SellOnDeathCross(t *testing.T) {
	strat := NewDualMAStrategy(2, 4)

	closes := []float64{10, 11, 12, 13, 14, 15, 2}
	decision, err := strat.Evaluate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, ActionSell, decision.Action)
	assert.Contains(t, decision.Reason, "crossed below")
}

// TestDualMAStrategy_HoldWithoutCross tests that a steady trend with no
// crossover holds.
func TestDualMAStrategy_HoldWithoutCross(t *testing.T) {
	strat := NewDualMAStrategy(2, 4)

	closes := []float64{10, 11, 12, 13, 14, 15, 16}
	decision, err := strat.Evaluate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, ActionHold, decision.Action)
}

// TestDualMAStrategy_InsufficientData tests the warmup guard.
func TestDualMAStrategy_InsufficientData(t *testing.T) {
	strat := NewDualMAStrategy(5, 20)
	_, err := strat.Evaluate(closesToBars(make([]float64, 10)))
	assert.ErrorIs(t, err, indicators.ErrInsufficientData)
}
