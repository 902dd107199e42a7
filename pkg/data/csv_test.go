package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadCSV tests parsing a well formed file.
func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, t.TempDir(), "600000.csv",
		"Date,Open,High,Low,Close,Volume\n"+
			"2024-01-02,10.0,10.5,9.8,10.2,120000\n"+
			"2024-01-03,10.2,10.8,10.1,10.6,98000\n")

	bars, err := LoadCSV(path, DefaultCSVFormat)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, 10.6, bars[1].Close)
	assert.Equal(t, "2024-01-02", bars[0].Timestamp.Format("2006-01-02"))
}

// TestLoadCSV_SkipsMalformedRows tests that bad rows are skipped rather
// than failing the file.
func TestLoadCSV_SkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, t.TempDir(), "600000.csv",
		"Date,Open,High,Low,Close,Volume\n"+
			"2024-01-02,10.0,10.5,9.8,10.2,120000\n"+
			"not-a-date,10.2,10.8,10.1,10.6,98000\n"+
			"2024-01-04,10.6,abc,10.4,10.9,87000\n"+
			"2024-01-05,10.9,11.2,10.8,11.0,91000\n")

	bars, err := LoadCSV(path, DefaultCSVFormat)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, 11.0, bars[1].Close)
}

// TestLoadCSV_MissingFile tests the error for a nonexistent path.
func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultCSVFormat)
	assert.Error(t, err)
}

// TestImportCSVDir tests the directory import into a store.
func TestImportCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeTempCSV(t, dir, "600000.csv",
		"Date,Open,High,Low,Close,Volume\n2024-01-02,10,11,9,10.5,1000\n")
	writeTempCSV(t, dir, "000001.csv",
		"Date,Open,High,Low,Close,Volume\n"+
			"2024-01-02,20,21,19,20.5,2000\n"+
			"2024-01-03,20.5,22,20,21.5,2500\n")
	writeTempCSV(t, dir, "notes.txt", "not a csv")

	store := newTestStore(t)
	ctx := context.Background()

	files, rows, err := ImportCSVDir(ctx, store, dir, DefaultCSVFormat)
	require.NoError(t, err)
	assert.Equal(t, 2, files)
	assert.Equal(t, 3, rows)

	symbols, err := store.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001", "600000"}, symbols)
}
