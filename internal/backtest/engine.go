package backtest

import (
	"github.com/finlens/finlens/internal/prices"
	"github.com/finlens/finlens/internal/sentiment"
)

// Options control signal thresholds and starting capital.
type Options struct {
	BuyThreshold   float64 // go long when daily sentiment exceeds this
	SellThreshold  float64 // go short when daily sentiment falls below this
	InitialCapital float64
}

// DefaultOptions returns the standard thresholds and a 10k starting book.
func DefaultOptions() Options {
	return Options{
		BuyThreshold:   0.2,
		SellThreshold:  -0.2,
		InitialCapital: 10000,
	}
}

// Row is one trading day of the backtest.
type Row struct {
	Date           string
	Close          float64
	SentimentScore float64
	Signal         int // +1 long, -1 short, 0 flat, from today's sentiment
	Position       int // the signal actually held today = yesterday's signal
	DailyReturn    float64
	StrategyReturn float64
	Cumulative     float64 // equity after today
}

// Run joins the daily sentiment series onto the price calendar and walks it
// once, carrying yesterday's signal and the running equity forward.
//
// The price calendar is authoritative: the result covers exactly the dates in
// bars, and a date without sentiment is neutral (0.0), since no news carries
// no direction. Today's signal only affects tomorrow's position, so a
// day's news can never pay off on that same day's move. If either input is
// empty there is nothing to test and the result is empty.
func Run(daily []sentiment.Daily, bars []prices.Bar, opts Options) []Row {
	if len(daily) == 0 || len(bars) == 0 {
		return nil
	}

	scores := make(map[string]float64, len(daily))
	for _, d := range daily {
		scores[d.Date] = d.MeanScore
	}

	rows := make([]Row, 0, len(bars))
	equity := opts.InitialCapital
	prevSignal := 0
	prevClose := 0.0

	for i, bar := range bars {
		row := Row{
			Date:           bar.Date,
			Close:          bar.Close,
			SentimentScore: scores[bar.Date],
		}

		switch {
		case row.SentimentScore > opts.BuyThreshold:
			row.Signal = 1
		case row.SentimentScore < opts.SellThreshold:
			row.Signal = -1
		}

		if i > 0 {
			row.Position = prevSignal
			if prevClose != 0 {
				row.DailyReturn = bar.Close/prevClose - 1
			}
			row.StrategyReturn = float64(row.Position) * row.DailyReturn
		}

		equity *= 1 + row.StrategyReturn
		row.Cumulative = equity

		prevSignal = row.Signal
		prevClose = bar.Close
		rows = append(rows, row)
	}

	return rows
}
