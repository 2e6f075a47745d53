package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const finvizQuoteURL = "https://finviz.com/quote.ashx?t="

// Finviz serves plain requests a 403, so we present a browser user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client scrapes headline rows from Finviz quote pages.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Finviz scrape client. pause is the minimum delay
// between successive page fetches when scanning a watchlist.
func NewClient(pause time.Duration) *Client {
	if pause <= 0 {
		pause = 2 * time.Second
	}
	return &Client{
		baseURL: finvizQuoteURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(pause), 1),
	}
}

// Scan fetches and parses the news table for one ticker. A ticker page
// without a news table yields an empty result, not an error.
func (c *Client) Scan(ctx context.Context, ticker string) ([]Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+ticker, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quote page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote page for %s returned %d", ticker, resp.StatusCode)
	}

	rows, err := ParseNewsTable(resp.Body)
	if err != nil {
		return nil, err
	}

	records, err := ResolveRows(ticker, rows)
	if err != nil {
		return nil, err
	}

	log.Printf("Found %d headlines for %s", len(records), ticker)
	return records, nil
}

// ScanBatch scans a watchlist of tickers, pacing requests through the rate
// limiter. Per-ticker failures are logged and skipped so one bad symbol does
// not abort the whole scan.
func (c *Client) ScanBatch(ctx context.Context, tickers []string) []Record {
	var all []Record
	for _, ticker := range tickers {
		records, err := c.Scan(ctx, ticker)
		if err != nil {
			log.Printf("Error scanning %s: %v", ticker, err)
			continue
		}
		all = append(all, records...)
	}
	return all
}

// ParseNewsTable extracts raw headline rows from a Finviz quote page. The
// news lives in a table with id "news-table"; each row has a timestamp cell
// and an anchor carrying the headline text and link.
func ParseNewsTable(r io.Reader) ([]RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing quote page: %w", err)
	}

	table := doc.Find("#news-table")
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []RawRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		anchor := tr.Find("a").First()
		if anchor.Length() == 0 {
			return
		}

		link, _ := anchor.Attr("href")
		tokens := strings.Fields(tr.Find("td").First().Text())

		rows = append(rows, RawRow{
			Tokens: tokens,
			Link:   link,
			Title:  strings.TrimSpace(anchor.Text()),
		})
	})

	return rows, nil
}
