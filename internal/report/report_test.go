package report

import (
	"strings"
	"testing"

	"github.com/finlens/finlens/internal/backtest"
	"github.com/finlens/finlens/internal/prices"
	"github.com/finlens/finlens/internal/sentiment"
)

func TestBuild(t *testing.T) {
	bars := []prices.Bar{
		{Date: "2023-12-01", Open: 100, Close: 100},
		{Date: "2023-12-04", Open: 100, Close: 102},
	}
	daily := []sentiment.Daily{{Ticker: "NVDA", Date: "2023-12-01", MeanScore: 0.5}}

	opts := backtest.DefaultOptions()
	rows := backtest.Run(daily, bars, opts)
	md := Build("NVDA", rows, opts)

	for _, want := range []string{
		"# NVDA sentiment backtest",
		"Period: 2023-12-01 to 2023-12-04 (2 trading days)",
		"Final equity: 10200.00",
		"Total return: 2.00%",
		"| 2023-12-04 | 102.00 |",
		"| long |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected report to contain %q\nreport:\n%s", want, md)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	md := Build("NVDA", nil, backtest.DefaultOptions())
	if !strings.Contains(md, "No backtest result") {
		t.Errorf("expected empty-result notice, got:\n%s", md)
	}
}

func TestBuildCapsTable(t *testing.T) {
	var bars []prices.Bar
	for i := 0; i < 100; i++ {
		bars = append(bars, prices.Bar{Date: "2023-01-01", Open: 100, Close: 100})
	}
	daily := []sentiment.Daily{{Ticker: "NVDA", Date: "2023-01-01", MeanScore: 0.5}}

	opts := backtest.DefaultOptions()
	md := Build("NVDA", backtest.Run(daily, bars, opts), opts)

	if !strings.Contains(md, "| ... |") {
		t.Error("expected truncation marker for long histories")
	}
	if got := strings.Count(md, "\n| 2023-01-01"); got > maxTableRows {
		t.Errorf("expected at most %d table rows, got %d", maxTableRows, got)
	}
}
