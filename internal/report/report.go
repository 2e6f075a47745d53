package report

import (
	"fmt"
	"strings"

	"github.com/finlens/finlens/internal/backtest"
)

// maxTableRows caps the per-day table so reports for long histories stay
// readable; the summary always covers the full run.
const maxTableRows = 60

// Build renders a backtest result as a markdown report.
func Build(ticker string, rows []backtest.Row, opts backtest.Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s sentiment backtest\n\n", ticker)

	if len(rows) == 0 {
		b.WriteString("No backtest result: the ticker has no scored headlines overlapping its price history.\n")
		return b.String()
	}

	s := backtest.Summarize(rows, opts.InitialCapital)

	fmt.Fprintf(&b, "Period: %s to %s (%d trading days)\n\n", rows[0].Date, rows[len(rows)-1].Date, s.TradingDays)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Initial capital: %.2f\n", opts.InitialCapital)
	fmt.Fprintf(&b, "- Final equity: %.2f\n", s.FinalEquity)
	fmt.Fprintf(&b, "- Total return: %.2f%%\n", s.TotalReturn*100)
	fmt.Fprintf(&b, "- Days in market: %d of %d\n", s.DaysInMarket, s.TradingDays)
	if s.DaysInMarket > 0 {
		fmt.Fprintf(&b, "- Hit rate: %.0f%%\n", s.HitRate*100)
	}
	fmt.Fprintf(&b, "- Thresholds: buy > %.2f, sell < %.2f\n", opts.BuyThreshold, opts.SellThreshold)

	b.WriteString("\n## Daily detail\n\n")
	b.WriteString("| Date | Close | Sentiment | Signal | Position | Strategy return | Equity |\n")
	b.WriteString("|------|-------|-----------|--------|----------|-----------------|--------|\n")

	tableRows := rows
	if len(tableRows) > maxTableRows {
		tableRows = tableRows[len(tableRows)-maxTableRows:]
		fmt.Fprintf(&b, "| ... | | | | | | |\n")
	}
	for _, r := range tableRows {
		fmt.Fprintf(&b, "| %s | %.2f | %+.3f | %s | %s | %+.2f%% | %.2f |\n",
			r.Date, r.Close, r.SentimentScore, direction(r.Signal), direction(r.Position),
			r.StrategyReturn*100, r.Cumulative)
	}

	return b.String()
}

func direction(d int) string {
	switch {
	case d > 0:
		return "long"
	case d < 0:
		return "short"
	default:
		return "flat"
	}
}
