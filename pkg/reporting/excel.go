package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/XanthanL/ashare-quant/internal/alpha"
	"github.com/XanthanL/ashare-quant/internal/portfolio"
)

// excelStyles holds the style ids shared across sheets.
type excelStyles struct {
	header   int
	currency int
	percent  int
	date     int
}

// WriteBacktestXLSX writes a portfolio run to an Excel workbook with a
// summary sheet and the full daily history.
func WriteBacktestXLSX(cfg portfolio.Config, history portfolio.History, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const historySheet = "History"
	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(historySheet)

	styles, err := newExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := writeSummarySheet(fx, summarySheet, cfg, history, styles); err != nil {
		return err
	}
	if err := writeHistorySheet(fx, historySheet, history, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// WriteRankingXLSX writes a top-K selection to an Excel workbook.
func WriteRankingXLSX(selection alpha.Selection, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Ranking"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	styles, err := newExcelStyles(fx)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Symbol", "Momentum 20d", "Volatility 20d", "Score"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	for i, c := range selection.Candidates {
		row := i + 2
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", row), c.Symbol)
		fx.SetCellValue(sheet, fmt.Sprintf("C%d", row), c.Momentum20)
		fx.SetCellValue(sheet, fmt.Sprintf("D%d", row), c.Volatility20)
		fx.SetCellValue(sheet, fmt.Sprintf("E%d", row), c.Score)
		fx.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), styles.percent)
	}

	fx.SetColWidth(sheet, "A", "E", 16)
	return fx.SaveAs(path)
}

func newExcelStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.currency, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	styles.percent, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10, // 0.00%
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	styles.date, err = fx.NewStyle(&excelize.Style{
		NumFmt:    14, // m/d/yyyy
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return styles, err
}

func writeSummarySheet(fx *excelize.File, sheet string, cfg portfolio.Config, history portfolio.History, styles excelStyles) error {
	last, ok := history.Last()
	if !ok {
		return fmt.Errorf("history is empty")
	}

	rows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Start Date", cfg.StartDate.Format("2006-01-02"), 0},
		{"End Date", cfg.EndDate.Format("2006-01-02"), 0},
		{"Initial Capital", cfg.InitialCapital, styles.currency},
		{"Final Value", last.TotalValue, styles.currency},
		{"Final Cash", last.Cash, styles.currency},
		{"Total Return", history.TotalReturn(cfg.InitialCapital), styles.percent},
		{"Max Drawdown", history.MaxDrawdown(), styles.percent},
		{"Rebalance Frequency", cfg.RebalanceFreq, 0},
		{"Top K", cfg.TopK, 0},
		{"Commission", cfg.Commission, 0},
		{"Stop Loss", cfg.StopLossPct, styles.percent},
	}

	for i, r := range rows {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		fx.SetCellValue(sheet, labelCell, r.label)
		fx.SetCellValue(sheet, valueCell, r.value)
		fx.SetCellStyle(sheet, labelCell, labelCell, styles.header)
		if r.style != 0 {
			fx.SetCellStyle(sheet, valueCell, valueCell, r.style)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 22)
	fx.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func writeHistorySheet(fx *excelize.File, sheet string, history portfolio.History, styles excelStyles) error {
	headers := []string{"Date", "Total Value", "Cash"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	for i, snap := range history {
		row := i + 2
		dateCell := fmt.Sprintf("A%d", row)
		fx.SetCellValue(sheet, dateCell, snap.Date)
		fx.SetCellStyle(sheet, dateCell, dateCell, styles.date)

		fx.SetCellValue(sheet, fmt.Sprintf("B%d", row), snap.TotalValue)
		fx.SetCellValue(sheet, fmt.Sprintf("C%d", row), snap.Cash)
		fx.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("C%d", row), styles.currency)
	}

	fx.SetColWidth(sheet, "A", "C", 16)
	return nil
}
