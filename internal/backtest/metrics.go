package backtest

import "math"

// CalculateSharpeRatio computes the per-trade Sharpe ratio over completed
// trades, with a zero risk-free rate.
func (r *Results) CalculateSharpeRatio() float64 {
	if len(r.Trades) == 0 {
		return 0
	}

	var returns []float64
	for _, trade := range r.Trades {
		if trade.EntryPrice > 0 && trade.ExitPrice > 0 {
			returns = append(returns, (trade.ExitPrice-trade.EntryPrice)/trade.EntryPrice)
		}
	}
	if len(returns) == 0 {
		return 0
	}

	avg := 0.0
	for _, ret := range returns {
		avg += ret
	}
	avg /= float64(len(returns))

	variance := 0.0
	for _, ret := range returns {
		variance += (ret - avg) * (ret - avg)
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	if stdDev < 1e-10 {
		return 0
	}
	return avg / stdDev
}

// CalculateProfitFactor computes gross profit over gross loss.
func (r *Results) CalculateProfitFactor() float64 {
	if len(r.Trades) == 0 {
		return 0
	}

	totalProfit := 0.0
	totalLoss := 0.0
	for _, trade := range r.Trades {
		if trade.PnL > 0 {
			totalProfit += trade.PnL
		} else {
			totalLoss += math.Abs(trade.PnL)
		}
	}

	if totalLoss == 0 {
		if totalProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return totalProfit / totalLoss
}

// CalculateWinRate computes the percentage of completed trades with a
// positive PnL.
func (r *Results) CalculateWinRate() float64 {
	if len(r.Trades) == 0 {
		return 0
	}
	wins := 0
	for _, trade := range r.Trades {
		if trade.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(r.Trades)) * 100
}

// UpdateMetrics recomputes all derived metrics from the trade list.
func (r *Results) UpdateMetrics() {
	r.SharpeRatio = r.CalculateSharpeRatio()
	r.ProfitFactor = r.CalculateProfitFactor()

	wins := 0
	for _, trade := range r.Trades {
		if trade.PnL > 0 {
			wins++
		}
	}
	r.TotalTrades = len(r.Trades)
	r.WinningTrades = wins
	r.LosingTrades = r.TotalTrades - wins
}
