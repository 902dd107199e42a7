package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRSI_Period tests that one extra bar is required for the first change.
func TestRSI_Period(t *testing.T) {
	assert.Equal(t, 15, NewRSI(14).Period())
}

// TestRSI_InsufficientData tests the short-series error.
func TestRSI_InsufficientData(t *testing.T) {
	rsi := NewRSI(14)
	_, err := rsi.Calculate(closesToBars(make([]float64, 14)))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

// TestRSI_AllGains tests that a monotonically rising series pins RSI at
// 100.
func TestRSI_AllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	v, err := NewRSI(14).Calculate(closesToBars(closes))
	assert.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

// TestRSI_AllLosses tests that a monotonically falling series drives RSI
// to 0.
func TestRSI_AllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	v, err := NewRSI(14).Calculate(closesToBars(closes))
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)
}

// TestRSI_BalancedMoves tests that equal gains and losses give RSI 50.
func TestRSI_BalancedMoves(t *testing.T) {
	closes := make([]float64, 15)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	v, err := NewRSI(14).Calculate(closesToBars(closes))
	assert.NoError(t, err)
	assert.InDelta(t, 50.0, v, 1e-9)
}

// TestRSI_Bounded tests the [0, 100] bound on a mixed series.
func TestRSI_Bounded(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8,
		46.1, 45.9, 46.3, 46.1, 46.6, 46.2, 46.7, 46.4, 46.2, 46.0, 46.3}
	v, err := NewRSI(14).Calculate(closesToBars(closes))
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
	// Mostly gains over the window, so RSI sits above the midpoint.
	assert.Greater(t, v, 50.0)
}
