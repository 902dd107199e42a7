package indicators

import (
	"errors"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

// ErrInsufficientData is returned when a series is shorter than the
// indicator's period.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// SMA computes the simple moving average of closing prices.
type SMA struct {
	period int
}

// NewSMA creates an SMA with the given period.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Period returns the minimum number of bars required.
func (s *SMA) Period() int {
	return s.period
}

// Calculate returns the mean close over the last period bars of data.
func (s *SMA) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < s.period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(data) - s.period; i < len(data); i++ {
		sum += data[i].Close
	}
	return sum / float64(s.period), nil
}

// Series returns the rolling mean of closes aligned with data. Entries
// before the first full window are NaN.
func (s *SMA) Series(closes []float64) []float64 {
	out := make([]float64, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= s.period {
			sum -= closes[i-s.period]
		}
		if i >= s.period-1 {
			out[i] = sum / float64(s.period)
		} else {
			out[i] = nan
		}
	}
	return out
}
