package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const dateLayout = "2006-01-02"

// Compile-time interface checks.
var _ MarketData = (*SQLiteStore)(nil)
var _ BarSink = (*SQLiteStore)(nil)

// SQLiteStore persists daily bars in a SQLite database, one row per
// (symbol, trade_date).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", dbPath, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS stock_daily (
	symbol     TEXT NOT NULL,
	trade_date TEXT NOT NULL,
	open       REAL,
	high       REAL,
	low        REAL,
	close      REAL,
	volume     REAL,
	PRIMARY KEY (symbol, trade_date)
);
CREATE INDEX IF NOT EXISTS idx_stock_daily_date ON stock_daily (trade_date);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// WriteBars upserts the given bars for symbol. Conflicting rows are replaced,
// so incremental downloads and re-imports are idempotent.
func (s *SQLiteStore) WriteBars(ctx context.Context, symbol string, bars []types.OHLCV) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO stock_daily (symbol, trade_date, open, high, low, close, volume)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (symbol, trade_date) DO UPDATE SET
	open = excluded.open, high = excluded.high, low = excluded.low,
	close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		date := types.Day(b.Timestamp).Format(dateLayout)
		if _, err := stmt.ExecContext(ctx, symbol, date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("upsert %s %s: %w", symbol, date, err)
		}
	}
	return tx.Commit()
}

// GetSeries returns daily bars for symbol within [start, end], ascending.
func (s *SQLiteStore) GetSeries(ctx context.Context, symbol string, start, end time.Time) ([]types.OHLCV, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT trade_date, open, high, low, close, volume
FROM stock_daily
WHERE symbol = ? AND trade_date >= ? AND trade_date <= ?
ORDER BY trade_date`,
		symbol, types.Day(start).Format(dateLayout), types.Day(end).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query series %s: %w", symbol, err)
	}
	defer rows.Close()

	var out []types.OHLCV
	for rows.Next() {
		var dateStr string
		var b types.OHLCV
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		d, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse trade_date %q: %w", dateStr, err)
		}
		b.Timestamp = d
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetPanel returns bars for every symbol with data in [start, end].
func (s *SQLiteStore) GetPanel(ctx context.Context, start, end time.Time) (*Panel, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT symbol, trade_date, open, high, low, close, volume
FROM stock_daily
WHERE trade_date >= ? AND trade_date <= ?
ORDER BY trade_date, symbol`,
		types.Day(start).Format(dateLayout), types.Day(end).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query panel: %w", err)
	}
	defer rows.Close()

	panel := NewPanel()
	for rows.Next() {
		var bar types.Bar
		var dateStr string
		if err := rows.Scan(&bar.Symbol, &dateStr, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scan panel row: %w", err)
		}
		d, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse trade_date %q: %w", dateStr, err)
		}
		bar.Timestamp = d
		panel.Add(bar)
	}
	return panel, rows.Err()
}

// ListSymbols returns all distinct symbols in the store, ascending.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM stock_daily ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// LatestDate returns the most recent trade date stored for symbol. The
// second return value is false when the symbol has no rows.
func (s *SQLiteStore) LatestDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	var dateStr sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(trade_date) FROM stock_daily WHERE symbol = ?`, symbol).Scan(&dateStr)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest date %s: %w", symbol, err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}
	d, err := time.ParseInLocation(dateLayout, dateStr.String, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse latest date %q: %w", dateStr.String, err)
	}
	return d, true, nil
}

// Status summarizes the store contents.
type Status struct {
	TotalRows      int
	Symbols        int
	LatestBySymbol map[string]time.Time
}

// GetStatus reports row counts, distinct symbol count, and the latest trade
// date per symbol.
func (s *SQLiteStore) GetStatus(ctx context.Context) (*Status, error) {
	st := &Status{LatestBySymbol: make(map[string]time.Time)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_daily`).Scan(&st.TotalRows); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, MAX(trade_date) FROM stock_daily GROUP BY symbol ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query latest dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sym, dateStr string
		if err := rows.Scan(&sym, &dateStr); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse latest date %q: %w", dateStr, err)
		}
		st.LatestBySymbol[sym] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	st.Symbols = len(st.LatestBySymbol)
	return st, nil
}
