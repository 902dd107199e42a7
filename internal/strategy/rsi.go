package strategy

import (
	"fmt"

	"github.com/XanthanL/ashare-quant/internal/indicators"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// RSIStrategy buys when RSI falls below the oversold threshold and sells
// when it rises above the overbought threshold.
type RSIStrategy struct {
	rsi           *indicators.RSI
	lowThreshold  float64
	highThreshold float64
}

// NewRSIStrategy creates an RSI strategy with the given period and
// oversold/overbought thresholds.
func NewRSIStrategy(period int, low, high float64) *RSIStrategy {
	return &RSIStrategy{
		rsi:           indicators.NewRSI(period),
		lowThreshold:  low,
		highThreshold: high,
	}
}

// GetName returns "rsi".
func (s *RSIStrategy) GetName() string {
	return "rsi"
}

// WarmupPeriod returns the bars needed before the first decision.
func (s *RSIStrategy) WarmupPeriod() int {
	return s.rsi.Period()
}

// Evaluate returns BUY below the low threshold, SELL above the high
// threshold, HOLD otherwise.
func (s *RSIStrategy) Evaluate(data []types.OHLCV) (*TradeDecision, error) {
	value, err := s.rsi.Calculate(data)
	if err != nil {
		return nil, err
	}

	decision := &TradeDecision{Action: ActionHold}
	if len(data) > 0 {
		decision.Timestamp = data[len(data)-1].Timestamp
	}
	switch {
	case value < s.lowThreshold:
		decision.Action = ActionBuy
		decision.Reason = fmt.Sprintf("RSI %.2f below %.0f (oversold)", value, s.lowThreshold)
	case value > s.highThreshold:
		decision.Action = ActionSell
		decision.Reason = fmt.Sprintf("RSI %.2f above %.0f (overbought)", value, s.highThreshold)
	default:
		decision.Reason = fmt.Sprintf("RSI %.2f neutral", value)
	}
	return decision, nil
}
