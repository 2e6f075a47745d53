package backtest

// Summary aggregates a backtest result for reporting.
type Summary struct {
	TradingDays  int
	DaysInMarket int     // days with a non-flat position
	WinningDays  int     // in-market days with a positive strategy return
	HitRate      float64 // WinningDays / DaysInMarket, 0 if never in market
	FinalEquity  float64
	TotalReturn  float64 // (FinalEquity / InitialCapital) - 1
}

// Summarize computes summary statistics over a backtest result.
func Summarize(rows []Row, initialCapital float64) Summary {
	s := Summary{TradingDays: len(rows), FinalEquity: initialCapital}
	if len(rows) == 0 {
		return s
	}

	for _, r := range rows {
		if r.Position == 0 {
			continue
		}
		s.DaysInMarket++
		if r.StrategyReturn > 0 {
			s.WinningDays++
		}
	}

	if s.DaysInMarket > 0 {
		s.HitRate = float64(s.WinningDays) / float64(s.DaysInMarket)
	}
	s.FinalEquity = rows[len(rows)-1].Cumulative
	if initialCapital != 0 {
		s.TotalReturn = s.FinalEquity/initialCapital - 1
	}
	return s
}
