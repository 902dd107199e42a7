package data

import (
	"context"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

// MarketData is the read-only contract the factor, ranking, and simulation
// engines consume. Implementations must not mutate persisted state on reads.
type MarketData interface {
	// GetSeries returns daily bars for one symbol within [start, end],
	// ascending by date. An empty slice means no data was available.
	GetSeries(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error)

	// GetPanel returns bars for every symbol with data in [start, end],
	// addressable by (date, symbol).
	GetPanel(ctx context.Context, start, end time.Time) (*Panel, error)
}

// BarSink receives downloaded or imported bars. Writes are upserts keyed by
// (symbol, trade date), so re-imports and overlapping downloads are safe.
type BarSink interface {
	WriteBars(ctx context.Context, symbol string, bars []types.OHLCV) error
}
