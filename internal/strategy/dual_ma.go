package strategy

import (
	"fmt"

	"github.com/XanthanL/ashare-quant/internal/indicators"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// DualMAStrategy buys when the short SMA crosses above the long SMA and
// sells when it crosses back below.
type DualMAStrategy struct {
	short *indicators.SMA
	long  *indicators.SMA
}

// NewDualMAStrategy creates a dual moving average crossover strategy.
func NewDualMAStrategy(shortPeriod, longPeriod int) *DualMAStrategy {
	return &DualMAStrategy{
		short: indicators.NewSMA(shortPeriod),
		long:  indicators.NewSMA(longPeriod),
	}
}

// GetName returns "dual-ma".
func (s *DualMAStrategy) GetName() string {
	return "dual-ma"
}

// WarmupPeriod returns the bars needed before the first decision. One extra
// bar is required to observe the previous relation of the two averages.
func (s *DualMAStrategy) WarmupPeriod() int {
	return s.long.Period() + 1
}

// Evaluate detects a crossover between the short and long SMA on the
// current bar.
func (s *DualMAStrategy) Evaluate(data []types.OHLCV) (*TradeDecision, error) {
	if len(data) < s.WarmupPeriod() {
		return nil, indicators.ErrInsufficientData
	}

	prev := data[:len(data)-1]
	shortPrev, err := s.short.Calculate(prev)
	if err != nil {
		return nil, err
	}
	longPrev, err := s.long.Calculate(prev)
	if err != nil {
		return nil, err
	}
	shortNow, err := s.short.Calculate(data)
	if err != nil {
		return nil, err
	}
	longNow, err := s.long.Calculate(data)
	if err != nil {
		return nil, err
	}

	decision := &TradeDecision{Action: ActionHold, Timestamp: data[len(data)-1].Timestamp}
	switch {
	case shortPrev <= longPrev && shortNow > longNow:
		decision.Action = ActionBuy
		decision.Reason = fmt.Sprintf("SMA%d crossed above SMA%d", s.short.Period(), s.long.Period())
	case shortPrev >= longPrev && shortNow < longNow:
		decision.Action = ActionSell
		decision.Reason = fmt.Sprintf("SMA%d crossed below SMA%d", s.short.Period(), s.long.Period())
	default:
		decision.Reason = "no crossover"
	}
	return decision, nil
}
