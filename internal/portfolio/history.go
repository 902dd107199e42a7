package portfolio

import "time"

// Snapshot is one end-of-day portfolio record.
type Snapshot struct {
	Date       time.Time
	TotalValue float64
	Cash       float64
}

// History is the ordered daily record of a backtest run: one seed entry the
// day before the first simulated day, then one entry per trading day.
type History []Snapshot

// Last returns the most recent snapshot.
func (h History) Last() (Snapshot, bool) {
	if len(h) == 0 {
		return Snapshot{}, false
	}
	return h[len(h)-1], true
}

// TotalReturn is final value over initial capital, minus one.
func (h History) TotalReturn(initialCapital float64) float64 {
	last, ok := h.Last()
	if !ok || initialCapital == 0 {
		return 0
	}
	return last.TotalValue/initialCapital - 1
}

// MaxDrawdown is the most negative peak-to-trough decline relative to the
// running maximum, as a fraction in [-1, 0].
func (h History) MaxDrawdown() float64 {
	maxDD := 0.0
	runningMax := 0.0
	for _, snap := range h {
		if snap.TotalValue > runningMax {
			runningMax = snap.TotalValue
		}
		if runningMax == 0 {
			continue
		}
		dd := (snap.TotalValue - runningMax) / runningMax
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
