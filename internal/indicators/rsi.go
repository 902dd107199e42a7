package indicators

import (
	"math"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

var nan = math.NaN()

// RSI computes the Relative Strength Index with Wilder's smoothing.
type RSI struct {
	period int
}

// NewRSI creates an RSI with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Period returns the minimum number of bars required. One extra bar is
// needed to form the first price change.
func (r *RSI) Period() int {
	return r.period + 1
}

// Calculate returns the latest RSI value over data.
func (r *RSI) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < r.period+1 {
		return 0, ErrInsufficientData
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= r.period; i++ {
		change := data[i].Close - data[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	// Wilder's smoothing over the remainder of the series.
	for i := r.period + 1; i < len(data); i++ {
		change := data[i].Close - data[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
	}

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}
