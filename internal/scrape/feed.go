package scrape

import (
	"fmt"
	"log"
	"strings"

	"github.com/mmcdole/gofeed"
)

const maxPerFeed = 50

const yahooFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// FeedSource pulls headlines from a per-ticker RSS feed as an alternative to
// scraping the quote page. Feed items carry full timestamps, so no date
// carry-forward is needed here.
type FeedSource struct {
	urlTemplate string
	parser      *gofeed.Parser
}

// NewFeedSource creates a feed source. urlTemplate must contain one %s for
// the ticker; empty means the Yahoo Finance headline feed.
func NewFeedSource(urlTemplate string) *FeedSource {
	if urlTemplate == "" {
		urlTemplate = yahooFeedURL
	}
	return &FeedSource{
		urlTemplate: urlTemplate,
		parser:      gofeed.NewParser(),
	}
}

// Fetch returns headline records for one ticker from the feed.
func (fs *FeedSource) Fetch(ticker string) ([]Record, error) {
	feedURL := fmt.Sprintf(fs.urlTemplate, ticker)
	feed, err := fs.parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("parsing feed for %s: %w", ticker, err)
	}

	var records []Record
	for _, item := range feed.Items {
		if len(records) >= maxPerFeed {
			break
		}

		link := item.Link
		if link == "" {
			link = item.GUID
		}
		title := strings.TrimSpace(item.Title)
		if link == "" || title == "" {
			continue
		}

		var date, timeOfDay string
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.Format("2006-01-02")
			timeOfDay = item.PublishedParsed.Format("03:04PM")
		} else if item.UpdatedParsed != nil {
			date = item.UpdatedParsed.Format("2006-01-02")
			timeOfDay = item.UpdatedParsed.Format("03:04PM")
		}
		if date == "" {
			continue
		}

		records = append(records, Record{
			Ticker:   ticker,
			Date:     date,
			Time:     timeOfDay,
			Headline: title,
			Link:     link,
		})
	}

	log.Printf("Parsed %d feed headlines for %s", len(records), ticker)
	return records, nil
}
