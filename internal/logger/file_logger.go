// Package logger appends live monitor activity to per-symbol log files so a
// watch session leaves an auditable trail beyond stdout.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level tags one log entry.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARN"
	LevelError   Level = "ERROR"
	LevelSignal  Level = "SIGNAL"
)

// Logger writes timestamped entries for one watched symbol. One file per
// symbol per day.
type Logger struct {
	symbol  string
	logDir  string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
}

// New creates a logger writing to <dir>/<symbol>_<date>.log.
func New(dir, symbol string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.log", symbol, time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:  symbol,
		logDir:  dir,
		logFile: file,
		logger:  log.New(file, "", 0),
	}
	l.writeSessionHeader()
	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Printf(`
================================================================================
👀 WATCH SESSION STARTED
Symbol: %s | Started: %s
================================================================================`,
		l.symbol, time.Now().Format("2006-01-02 15:04:05"))
}

// Log writes one formatted entry at the given level.
func (l *Logger) Log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LevelInfo, format, args...)
}

func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LevelWarning, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LevelError, format, args...)
}

// Signal records one strategy evaluation outcome.
func (l *Logger) Signal(action string, price float64, reason string) {
	l.Log(LevelSignal, "%s at ¥%.2f: %s", action, price, reason)
}

// Close writes the session footer and releases the file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}
	l.logger.Printf(`
================================================================================
👋 WATCH SESSION ENDED
Ended: %s
================================================================================
`, time.Now().Format("2006-01-02 15:04:05"))
	return l.logFile.Close()
}

// Path returns the file this logger writes to.
func (l *Logger) Path() string {
	filename := fmt.Sprintf("%s_%s.log", l.symbol, time.Now().Format("2006-01-02"))
	return filepath.Join(l.logDir, filename)
}
