// Package factor computes rolling momentum and volatility factors from a
// daily price panel, grouped strictly per symbol.
package factor

import (
	"math"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/data"
)

// Window is the lookback, in trading observations, for both factors.
const Window = 20

// Row is one (date, symbol) observation augmented with factor values.
// Momentum20 and Volatility20 are NaN until enough trailing history exists
// for the symbol.
type Row struct {
	Date         time.Time
	Symbol       string
	Close        float64
	Momentum20   float64
	Volatility20 float64
}

// Defined reports whether both factors are available for this row.
func (r Row) Defined() bool {
	return !math.IsNaN(r.Momentum20) && !math.IsNaN(r.Volatility20)
}

// Panel is a factor panel: price rows with factor columns. Rows are ordered
// symbol-major (symbols ascending, dates ascending within a symbol), which
// fixes the tie-break order used downstream.
type Panel struct {
	Rows []Row
}

// Compute derives Momentum20 and Volatility20 for every (date, symbol) in
// prices. Momentum20 is close[t]/close[t-20] - 1. Volatility20 is the
// sample standard deviation of the last 20 daily simple returns. Neither
// factor ever reads across symbols or forward in time. An empty input
// yields an empty panel.
func Compute(prices *data.Panel) *Panel {
	fp := &Panel{}
	if prices == nil || prices.Empty() {
		return fp
	}

	for _, symbol := range prices.Symbols() {
		series := prices.Series(symbol)

		returns := make([]float64, len(series))
		for i := range series {
			if i == 0 || series[i-1].Close == 0 {
				returns[i] = math.NaN()
				continue
			}
			returns[i] = series[i].Close/series[i-1].Close - 1
		}

		for i, bar := range series {
			row := Row{
				Date:         bar.Timestamp,
				Symbol:       symbol,
				Close:        bar.Close,
				Momentum20:   math.NaN(),
				Volatility20: math.NaN(),
			}
			if i >= Window {
				if base := series[i-Window].Close; base != 0 {
					row.Momentum20 = bar.Close/base - 1
				}
				row.Volatility20 = sampleStd(returns[i-Window+1 : i+1])
			}
			fp.Rows = append(fp.Rows, row)
		}
	}
	return fp
}

// sampleStd returns the sample (n-1) standard deviation of vals, or NaN if
// any value is NaN or fewer than two values are present.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range vals {
		if math.IsNaN(v) {
			return math.NaN()
		}
		mean += v
	}
	mean /= float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals) - 1)
	return math.Sqrt(variance)
}
