package database

// Headline represents one scraped news item plus, once scored, its sentiment.
// A headline is identified by (ticker, date, time, headline); the date is kept
// as the raw token from the source ("Dec-09-23" or "Today") and is only
// normalized to a calendar date at aggregation time.
type Headline struct {
	ID             int64
	Ticker         string
	Date           string
	Time           string
	Headline       string
	Link           *string
	Label          *string
	Confidence     *float64
	SentimentScore *float64
	Content        *string
	ContentFetched bool
	CollectedAt    *string
}

// Scored reports whether the headline has been through sentiment scoring.
func (h *Headline) Scored() bool {
	return h.SentimentScore != nil
}

// Report holds a persisted backtest report for a ticker.
type Report struct {
	ID           int64
	Ticker       string
	BodyMarkdown string
	TradingDays  int
	FinalEquity  float64
	GeneratedAt  *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalHeadlines  int
	ScoredHeadlines int
	Tickers         int
	Reports         int
}
