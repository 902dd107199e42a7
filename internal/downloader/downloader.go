package downloader

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/XanthanL/ashare-quant/internal/safety"
	"github.com/XanthanL/ashare-quant/pkg/data"
)

var (
	// defaultStockStart is where a symbol's history begins when the store
	// holds nothing for it yet.
	defaultStockStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	// defaultIndexStart reaches further back since index history is long.
	defaultIndexStart = time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Status classifies the outcome of one symbol update.
type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusSkipped   Status = "SKIPPED"
	StatusNoNewData Status = "NO_NEW_DATA"
	StatusFailed    Status = "FAILED"
)

// Result reports what happened to one symbol.
type Result struct {
	Symbol       string
	Status       Status
	RecordsSaved int
	Err          error
}

// Store is the persistence surface the downloader needs.
type Store interface {
	data.BarSink
	LatestDate(ctx context.Context, symbol string) (time.Time, bool, error)
}

// Downloader performs incremental daily updates into a Store.
type Downloader struct {
	fetcher Fetcher
	store   Store
	limiter *safety.RateLimiter

	// now is swappable for tests.
	now func() time.Time
}

// New creates a downloader over the given fetcher and store. Batch runs
// pace their API calls at a few requests per second.
func New(fetcher Fetcher, store Store) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		store:   store,
		limiter: safety.NewRateLimiter(5, 3),
		now:     time.Now,
	}
}

// UpdateSymbol downloads everything after the symbol's latest stored date.
// A symbol with no stored history starts at defaultStart.
func (d *Downloader) UpdateSymbol(ctx context.Context, symbol string, defaultStart time.Time) Result {
	latest, found, err := d.store.LatestDate(ctx, symbol)
	if err != nil {
		return Result{Symbol: symbol, Status: StatusFailed, Err: err}
	}

	start := defaultStart
	if found {
		start = latest.AddDate(0, 0, 1)
	}
	end := d.now()
	if start.After(end) {
		return Result{Symbol: symbol, Status: StatusSkipped}
	}

	bars, err := d.fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return Result{Symbol: symbol, Status: StatusFailed, Err: err}
	}

	// Guard against the API replaying rows already stored.
	if found {
		fresh := bars[:0]
		for _, bar := range bars {
			if bar.Timestamp.After(latest) {
				fresh = append(fresh, bar)
			}
		}
		bars = fresh
	}
	if len(bars) == 0 {
		return Result{Symbol: symbol, Status: StatusNoNewData}
	}

	if err := d.store.WriteBars(ctx, symbol, bars); err != nil {
		return Result{Symbol: symbol, Status: StatusFailed, Err: err}
	}
	return Result{Symbol: symbol, Status: StatusSuccess, RecordsSaved: len(bars)}
}

// UpdateIndex refreshes one index series, reaching back to 2005 on first
// download.
func (d *Downloader) UpdateIndex(ctx context.Context, symbol string) Result {
	return d.UpdateSymbol(ctx, symbol, defaultIndexStart)
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int
	Success   int
	Skipped   int
	NoNewData int
	Failed    int
	Results   []Result
}

// UpdateAll refreshes every symbol concurrently with a bounded worker
// pool, then logs and returns a summary.
func (d *Downloader) UpdateAll(ctx context.Context, symbols []string, workerCount int) Summary {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	jobs := make(chan string)
	results := make(chan Result, len(symbols))
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				// Paced so a large batch does not hammer the API.
				if err := d.limiter.Wait(ctx); err != nil {
					results <- Result{Symbol: symbol, Status: StatusFailed, Err: err}
					continue
				}
				results <- d.UpdateSymbol(ctx, symbol, defaultStockStart)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := Summary{}
	for res := range results {
		summary.Total++
		summary.Results = append(summary.Results, res)
		switch res.Status {
		case StatusSuccess:
			summary.Success++
		case StatusSkipped:
			summary.Skipped++
		case StatusNoNewData:
			summary.NoNewData++
		case StatusFailed:
			summary.Failed++
			log.Printf("❌ %s download failed: %v", res.Symbol, res.Err)
		}
	}

	log.Printf("📊 download summary: %d total, %d updated, %d up to date, %d no new data, %d failed",
		summary.Total, summary.Success, summary.Skipped, summary.NoNewData, summary.Failed)
	return summary
}

// String renders the summary for console output.
func (s Summary) String() string {
	return fmt.Sprintf("total=%d success=%d skipped=%d no_new_data=%d failed=%d",
		s.Total, s.Success, s.Skipped, s.NoNewData, s.Failed)
}
