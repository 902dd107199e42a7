package types

import "time"

// OHLCV is a single daily candle for one instrument. Timestamp is the
// trading date normalized to midnight UTC.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Bar is an OHLCV row tagged with the instrument it belongs to, the shape
// persisted by the data store.
type Bar struct {
	Symbol string
	OHLCV
}

// Day normalizes t to midnight UTC so trading dates compare and hash
// consistently regardless of source timezone or monotonic clock readings.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
