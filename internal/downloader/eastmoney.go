// Package downloader pulls daily A-share kline history from the EastMoney
// quote API and writes it into the local store incrementally.
package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

const (
	klineEndpoint = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	dailyKlt      = "101" // daily bars
	hfqFqt        = "2"   // backward adjusted prices
)

// Fetcher retrieves daily bars for one symbol over a date range.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error)
}

// EastMoneyClient implements Fetcher against the EastMoney kline API.
type EastMoneyClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewEastMoneyClient creates a client with a sane request timeout.
func NewEastMoneyClient() *EastMoneyClient {
	return &EastMoneyClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    klineEndpoint,
	}
}

type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// secID maps a bare symbol to EastMoney's market-prefixed id. Shanghai
// listings (including the major indices) use market 1, Shenzhen market 0.
func secID(symbol string) string {
	sym := strings.ToLower(symbol)
	switch {
	case strings.HasPrefix(sym, "sh"):
		return "1." + sym[2:]
	case strings.HasPrefix(sym, "sz"):
		return "0." + sym[2:]
	case strings.HasPrefix(sym, "6"):
		return "1." + sym
	default:
		return "0." + sym
	}
}

// FetchDaily downloads backward-adjusted daily bars for symbol in
// [start, end], oldest first.
func (c *EastMoneyClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	params := url.Values{}
	params.Set("secid", secID(symbol))
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f57")
	params.Set("klt", dailyKlt)
	params.Set("fqt", hfqFqt)
	params.Set("beg", start.Format("20060102"))
	params.Set("end", end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build kline request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kline request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kline request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read kline response: %w", err)
	}

	var parsed klineResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse kline response for %s: %w", symbol, err)
	}
	if parsed.Data == nil {
		return nil, nil
	}

	bars := make([]types.OHLCV, 0, len(parsed.Data.Klines))
	for _, line := range parsed.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return nil, fmt.Errorf("bad kline row for %s: %w", symbol, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline decodes one "date,open,close,high,low,volume,..." row.
func parseKline(line string) (types.OHLCV, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return types.OHLCV{}, fmt.Errorf("expected at least 6 fields, got %d", len(parts))
	}

	ts, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("bad date %q: %w", parts[0], err)
	}

	vals := make([]float64, 5)
	for i, raw := range parts[1:6] {
		vals[i], err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("bad number %q: %w", raw, err)
		}
	}

	return types.OHLCV{
		Timestamp: ts,
		Open:      vals[0],
		Close:     vals[1],
		High:      vals[2],
		Low:       vals[3],
		Volume:    vals[4],
	}, nil
}
