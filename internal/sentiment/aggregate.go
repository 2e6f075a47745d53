package sentiment

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/finlens/finlens/internal/database"
)

// Daily is the mean sentiment score across all scored headlines for a ticker
// on one calendar date. Dates are YYYY-MM-DD strings, so lexicographic order
// is chronological order.
type Daily struct {
	Ticker    string
	Date      string
	MeanScore float64
}

// dateLayouts are the date token formats the news source emits, tried in order.
var dateLayouts = []string{"Jan-02-06", "Jan-02-2006", "2006-01-02"}

// ResolveDateToken normalizes a raw date token to YYYY-MM-DD. The source
// prints "Today" for the current day; it resolves against the supplied
// reference date, which callers set to the aggregation-run date.
func ResolveDateToken(token string, today time.Time) (string, error) {
	token = strings.TrimSpace(token)
	if strings.EqualFold(token, "Today") {
		return today.Format("2006-01-02"), nil
	}
	if strings.EqualFold(token, "Yesterday") {
		return today.AddDate(0, 0, -1).Format("2006-01-02"), nil
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, token); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date token %q", token)
}

// Aggregate reduces scored headlines to one Daily per calendar date, ordered
// by date ascending. Headlines without a sentiment score are excluded and do
// not count toward the mean; a date whose headlines are all unscored is
// absent from the output. Headlines whose date token cannot be parsed are
// logged and skipped rather than misdated.
func Aggregate(records []database.Headline, today time.Time) []Daily {
	type group struct {
		sum   float64
		count int
	}
	groups := make(map[string]*group)
	tickers := make(map[string]string)

	for _, h := range records {
		if !h.Scored() {
			continue
		}
		date, err := ResolveDateToken(h.Date, today)
		if err != nil {
			log.Printf("Skipping headline with bad date: %v", err)
			continue
		}

		g, ok := groups[date]
		if !ok {
			g = &group{}
			groups[date] = g
		}
		g.sum += *h.SentimentScore
		g.count++
		tickers[date] = h.Ticker
	}

	daily := make([]Daily, 0, len(groups))
	for date, g := range groups {
		daily = append(daily, Daily{
			Ticker:    tickers[date],
			Date:      date,
			MeanScore: g.sum / float64(g.count),
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })
	return daily
}
