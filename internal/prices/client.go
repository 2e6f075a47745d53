package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const chartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Bar is one daily price bar. Date is YYYY-MM-DD.
type Bar struct {
	Date  string
	Open  float64
	Close float64
}

// Source supplies daily price bars for a ticker over a date range.
type Source interface {
	GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]Bar, error)
}

// Client fetches daily OHLC bars from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a price client.
func NewClient() *Client {
	return &Client{
		baseURL: chartBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDailyBars returns daily bars for [start, end], ordered by date. A range
// with no trading data yields an empty slice, not an error.
func (c *Client) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]Bar, error) {
	params := url.Values{
		"period1":  {fmt.Sprintf("%d", start.Unix())},
		"period2":  {fmt.Sprintf("%d", end.Unix())},
		"interval": {"1d"},
		"events":   {"history"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+url.PathEscape(ticker)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "finlens/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Printf("No price data for %s", ticker)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned %d for %s", resp.StatusCode, ticker)
	}

	var payload struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open  []*float64 `json:"open"`
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var bars []Bar
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.Close) {
			break
		}
		// Nulls appear on halted days; skip them rather than invent prices.
		if quote.Open[i] == nil || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, Bar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Open:  *quote.Open[i],
			Close: *quote.Close[i],
		})
	}

	return bars, nil
}
