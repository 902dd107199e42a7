package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

func closesToBars(closes []float64) []types.OHLCV {
	out := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = types.OHLCV{Close: c}
	}
	return out
}

// TestSMA_Calculate tests the rolling mean over the trailing window.
func TestSMA_Calculate(t *testing.T) {
	sma := NewSMA(3)
	assert.Equal(t, 3, sma.Period())

	v, err := sma.Calculate(closesToBars([]float64{1, 2, 3}))
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)

	// Only the last 3 bars matter.
	v, err = sma.Calculate(closesToBars([]float64{100, 1, 2, 3}))
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)
}

// TestSMA_InsufficientData tests the short-series error.
func TestSMA_InsufficientData(t *testing.T) {
	sma := NewSMA(5)
	_, err := sma.Calculate(closesToBars([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

// TestSMA_Series tests the NaN-padded rolling series.
func TestSMA_Series(t *testing.T) {
	sma := NewSMA(3)
	out := sma.Series([]float64{1, 2, 3, 4, 5})

	assert.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

// TestSMA_SeriesEmpty tests the empty-input edge case.
func TestSMA_SeriesEmpty(t *testing.T) {
	assert.Empty(t, NewSMA(3).Series(nil))
}
