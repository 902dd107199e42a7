package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger_WritesSessionFile tests the header, entries, and footer of one
// session.
func TestLogger_WritesSessionFile(t *testing.T) {
	dir := t.TempDir()

	l, err := New(dir, "600519")
	require.NoError(t, err)

	l.Info("starting up")
	l.Signal("BUY", 1720.55, "RSI 25.10 below 30 (oversold)")
	l.Warning("slow response")
	require.NoError(t, l.Close())

	raw, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "WATCH SESSION STARTED")
	assert.Contains(t, content, "Symbol: 600519")
	assert.Contains(t, content, "[INFO] starting up")
	assert.Contains(t, content, "[SIGNAL] BUY at ¥1720.55")
	assert.Contains(t, content, "[WARN] slow response")
	assert.Contains(t, content, "WATCH SESSION ENDED")
}

// TestLogger_AppendsAcrossSessions tests that reopening the same day's file
// appends rather than truncates.
func TestLogger_AppendsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir, "000001")
	require.NoError(t, err)
	first.Info("first session")
	require.NoError(t, first.Close())

	second, err := New(dir, "000001")
	require.NoError(t, err)
	second.Info("second session")
	require.NoError(t, second.Close())

	raw, err := os.ReadFile(second.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "first session")
	assert.Contains(t, string(raw), "second session")
}

// TestLogger_BadDirectory tests the unwritable-directory error path.
func TestLogger_BadDirectory(t *testing.T) {
	path := t.TempDir() + "/occupied"
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := New(path, "600519")
	assert.Error(t, err)
}
