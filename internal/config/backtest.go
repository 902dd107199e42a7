package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/XanthanL/ashare-quant/internal/portfolio"
)

// BacktestFile is the YAML shape of a portfolio backtest configuration.
type BacktestFile struct {
	StartDate      string   `yaml:"start_date"`
	EndDate        string   `yaml:"end_date"`
	RebalanceFreq  int      `yaml:"rebalance_freq"`
	TopK           int      `yaml:"top_k"`
	InitialCapital float64  `yaml:"initial_capital"`
	Commission     float64  `yaml:"commission"`
	StopLossPct    float64  `yaml:"stop_loss_pct"`
	IndexSymbol    string   `yaml:"index_symbol"`
	Symbols        []string `yaml:"symbols"`
}

// LoadBacktestFile parses a YAML backtest config and converts it into
// engine parameters.
func LoadBacktestFile(path string) (*BacktestFile, portfolio.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, portfolio.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file BacktestFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, portfolio.Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg, err := file.ToPortfolioConfig()
	if err != nil {
		return nil, portfolio.Config{}, err
	}
	return &file, cfg, nil
}

// ToPortfolioConfig validates the date strings and builds the engine config.
func (f *BacktestFile) ToPortfolioConfig() (portfolio.Config, error) {
	start, err := time.Parse("2006-01-02", f.StartDate)
	if err != nil {
		return portfolio.Config{}, fmt.Errorf("bad start_date %q: %w", f.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", f.EndDate)
	if err != nil {
		return portfolio.Config{}, fmt.Errorf("bad end_date %q: %w", f.EndDate, err)
	}
	return portfolio.Config{
		StartDate:      start,
		EndDate:        end,
		RebalanceFreq:  f.RebalanceFreq,
		TopK:           f.TopK,
		InitialCapital: f.InitialCapital,
		Commission:     f.Commission,
		StopLossPct:    f.StopLossPct,
	}, nil
}
