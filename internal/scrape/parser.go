package scrape

import (
	"errors"
	"strings"
)

// RawRow is one row lifted out of a source news table before date resolution.
// Tokens holds the fields of the timestamp cell: either {date, time} for a
// dated row, or just {time} when the source omits a date repeated from the
// row above.
type RawRow struct {
	Tokens []string
	Link   string
	Title  string
}

// Record is a fully resolved headline row. Date keeps the raw source token
// ("Dec-09-23" or "Today"); it is normalized to a calendar date at
// aggregation time, not here.
type Record struct {
	Ticker   string
	Date     string
	Time     string
	Headline string
	Link     string
}

// ErrNoDate is returned when a continuation row appears before any dated row,
// leaving no date to carry forward.
var ErrNoDate = errors.New("scrape: continuation row before any dated row")

// ResolveRows turns raw table rows into records with a date on every row.
// The source only prints a date on the first row of each day; subsequent rows
// carry just a time and inherit the date from the nearest dated row above.
// That is modeled as a single scan in source order with a "last seen date"
// accumulator, so the result does not depend on whether the source lists
// newest-first or oldest-first. Rows without a link or title are skipped.
func ResolveRows(ticker string, rows []RawRow) ([]Record, error) {
	var records []Record
	currentDate := ""

	for _, row := range rows {
		if row.Link == "" || strings.TrimSpace(row.Title) == "" {
			continue
		}

		var date, timeOfDay string
		switch len(row.Tokens) {
		case 0:
			// No timestamp cell at all: not a headline row.
			continue
		case 1:
			if currentDate == "" {
				return nil, ErrNoDate
			}
			date = currentDate
			timeOfDay = row.Tokens[0]
		default:
			date = row.Tokens[0]
			timeOfDay = row.Tokens[1]
			currentDate = date
		}

		records = append(records, Record{
			Ticker:   ticker,
			Date:     date,
			Time:     timeOfDay,
			Headline: strings.TrimSpace(row.Title),
			Link:     row.Link,
		})
	}

	return records, nil
}
