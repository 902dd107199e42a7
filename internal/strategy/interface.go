package strategy

import (
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

// Strategy defines the interface for single-instrument signal strategies.
type Strategy interface {
	// Evaluate analyzes the trailing bar window (oldest first, current bar
	// last) and returns a trading decision.
	Evaluate(data []types.OHLCV) (*TradeDecision, error)

	// GetName returns the name of the strategy.
	GetName() string

	// WarmupPeriod returns the minimum number of bars Evaluate needs.
	WarmupPeriod() int
}

// TradeDecision represents a trading decision made by a strategy.
type TradeDecision struct {
	Action    TradeAction
	Reason    string
	Timestamp time.Time
}

// TradeAction represents the type of trading action.
type TradeAction int

const (
	ActionHold TradeAction = iota
	ActionBuy
	ActionSell
)

func (ta TradeAction) String() string {
	switch ta {
	case ActionHold:
		return "HOLD"
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}
