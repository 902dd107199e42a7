// Package reporting renders backtest and ranking output to the console,
// CSV, and Excel.
package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/XanthanL/ashare-quant/internal/alpha"
	"github.com/XanthanL/ashare-quant/internal/backtest"
	"github.com/XanthanL/ashare-quant/internal/portfolio"
)

// PrintPortfolioSummary prints the headline numbers of a portfolio run.
func PrintPortfolioSummary(cfg portfolio.Config, history portfolio.History) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 PORTFOLIO BACKTEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))

	last, ok := history.Last()
	if !ok {
		fmt.Println("no history produced")
		return
	}

	fmt.Printf("💰 Initial Capital:  ¥%.2f\n", cfg.InitialCapital)
	fmt.Printf("💰 Final Value:      ¥%.2f\n", last.TotalValue)
	fmt.Printf("💰 Final Cash:       ¥%.2f\n", last.Cash)
	fmt.Printf("📈 Total Return:     %.2f%%\n", history.TotalReturn(cfg.InitialCapital)*100)
	fmt.Printf("📉 Max Drawdown:     %.2f%%\n", history.MaxDrawdown()*100)
	fmt.Printf("📅 Trading Days:     %d\n", len(history)-1)
}

// PrintPortfolioConfig prints the run parameters as a rounded table.
func PrintPortfolioConfig(cfg portfolio.Config, indexSymbol string, symbolCount int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BACKTEST CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📅 Start Date", cfg.StartDate.Format("2006-01-02")},
		{"📅 End Date", cfg.EndDate.Format("2006-01-02")},
		{"💰 Initial Capital", fmt.Sprintf("¥%.2f", cfg.InitialCapital)},
		{"🔄 Rebalance Freq", fmt.Sprintf("every %d trading days", cfg.RebalanceFreq)},
		{"🏆 Top K", cfg.TopK},
		{"💸 Commission", fmt.Sprintf("%.4f", cfg.Commission)},
		{"🛑 Stop Loss", fmt.Sprintf("%.2f%%", cfg.StopLossPct*100)},
		{"📊 Index Filter", indexSymbol},
		{"🎫 Universe Size", symbolCount},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintRanking prints a top-K selection as a rounded table.
func PrintRanking(selection alpha.Selection) {
	if selection.Empty() {
		fmt.Println("no candidates ranked, not enough factor history")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("TOP %d as of %s", len(selection.Candidates),
		selection.AnalysisDate.Format("2006-01-02")))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Symbol", "Momentum 20d", "Volatility 20d", "Score"})
	for i, c := range selection.Candidates {
		t.AppendRow(table.Row{
			i + 1,
			c.Symbol,
			fmt.Sprintf("%.2f%%", c.Momentum20*100),
			fmt.Sprintf("%.4f", c.Volatility20),
			fmt.Sprintf("%.2f", c.Score),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	t.Render()
}

// PrintSignalResults prints single-instrument signal backtest results.
func PrintSignalResults(results *backtest.Results) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 SIGNAL BACKTEST RESULTS")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("💰 Initial Balance:  ¥%.2f\n", results.StartBalance)
	fmt.Printf("💰 Final Balance:    ¥%.2f\n", results.EndBalance)
	fmt.Printf("📈 Total Return:     %.2f%%\n", results.TotalReturn*100)
	fmt.Printf("📉 Max Drawdown:     %.2f%%\n", results.MaxDrawdown*100)
	fmt.Printf("📊 Sharpe Ratio:     %.2f\n", results.SharpeRatio)
	fmt.Printf("💹 Profit Factor:    %.2f\n", results.ProfitFactor)
	fmt.Printf("🔄 Total Trades:     %d\n", results.TotalTrades)

	winRate := 0.0
	loseRate := 0.0
	if results.TotalTrades > 0 {
		winRate = float64(results.WinningTrades) / float64(results.TotalTrades) * 100
		loseRate = float64(results.LosingTrades) / float64(results.TotalTrades) * 100
	}
	fmt.Printf("✅ Winning Trades:   %d (%.1f%%)\n", results.WinningTrades, winRate)
	fmt.Printf("❌ Losing Trades:    %d (%.1f%%)\n", results.LosingTrades, loseRate)
}
