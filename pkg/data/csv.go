package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/XanthanL/ashare-quant/pkg/types"
)

// CSVColumnMapping defines column positions and date layout for legacy CSV
// exports (one file per symbol, header row first).
type CSVColumnMapping struct {
	DateCol    int
	OpenCol    int
	HighCol    int
	LowCol     int
	CloseCol   int
	VolumeCol  int
	MinColumns int
	DateFormat string
}

// DefaultCSVFormat matches the Date,Open,High,Low,Close,Volume layout the
// legacy market_data directory was written in.
var DefaultCSVFormat = CSVColumnMapping{
	DateCol:    0,
	OpenCol:    1,
	HighCol:    2,
	LowCol:     3,
	CloseCol:   4,
	VolumeCol:  5,
	MinColumns: 6,
	DateFormat: "2006-01-02",
}

// LoadCSV reads daily bars from a CSV file. Malformed rows are logged and
// skipped rather than failing the whole file.
func LoadCSV(path string, format CSVColumnMapping) ([]types.OHLCV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var bars []types.OHLCV
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read %s line %d: %w", path, lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("⚠️ %s line %d: expected %d columns, got %d, skipping", path, lineNum, format.MinColumns, len(record))
			continue
		}

		day, err := time.ParseInLocation(format.DateFormat, record[format.DateCol], time.UTC)
		if err != nil {
			log.Printf("⚠️ %s line %d: invalid date %q, skipping", path, lineNum, record[format.DateCol])
			continue
		}

		fields := [5]float64{}
		cols := [5]int{format.OpenCol, format.HighCol, format.LowCol, format.CloseCol, format.VolumeCol}
		bad := false
		for i, col := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				log.Printf("⚠️ %s line %d: invalid numeric field %q, skipping", path, lineNum, record[col])
				bad = true
				break
			}
			fields[i] = v
		}
		if bad {
			continue
		}

		bars = append(bars, types.OHLCV{
			Timestamp: day,
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
		})
	}
	return bars, nil
}

// ImportCSVDir loads every *.csv file in dir into sink, using the file base
// name (without extension) as the symbol. Returns the number of files and
// rows imported.
func ImportCSVDir(ctx context.Context, sink BarSink, dir string, format CSVColumnMapping) (files, rows int, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, 0, fmt.Errorf("glob %s: %w", dir, err)
	}
	for _, path := range matches {
		symbol := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		bars, err := LoadCSV(path, format)
		if err != nil {
			return files, rows, err
		}
		if len(bars) == 0 {
			log.Printf("⚠️ %s: no usable rows, skipping", path)
			continue
		}
		if err := sink.WriteBars(ctx, symbol, bars); err != nil {
			return files, rows, fmt.Errorf("import %s: %w", symbol, err)
		}
		files++
		rows += len(bars)
	}
	return files, rows, nil
}
