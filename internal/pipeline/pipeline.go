package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/finlens/finlens/internal/backtest"
	"github.com/finlens/finlens/internal/config"
	"github.com/finlens/finlens/internal/database"
	"github.com/finlens/finlens/internal/prices"
	"github.com/finlens/finlens/internal/report"
	"github.com/finlens/finlens/internal/scrape"
	"github.com/finlens/finlens/internal/score"
	"github.com/finlens/finlens/internal/sentiment"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a pipeline run for one ticker.
type Result struct {
	Ticker string
	Steps  []StepResult

	// Filled by Analyze.
	Rows       []backtest.Row
	RunSummary backtest.Summary
}

// headlineSource scans one ticker for headline records.
type headlineSource interface {
	Scan(ctx context.Context, ticker string) ([]scrape.Record, error)
}

// Pipeline wires the scraper, scorer, store, price source, and backtest
// engine together for the scan and analyze commands.
type Pipeline struct {
	cfg     *config.Config
	db      *database.DB
	scraper headlineSource
	feed    *scrape.FeedSource
	scorer  score.Scorer
	prices  prices.Source
}

// New creates a pipeline with the production collaborators.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		db:      db,
		scraper: scrape.NewClient(time.Duration(cfg.Scraper.PauseSeconds) * time.Second),
		scorer:  score.NewFinBERTClient(cfg.Scoring.Endpoint),
		prices:  prices.NewClient(),
	}
	if cfg.Scraper.FeedURL != "" {
		p.feed = scrape.NewFeedSource(cfg.Scraper.FeedURL)
	}
	return p
}

// Scan runs scrape -> score -> store for one ticker.
func (p *Pipeline) Scan(ctx context.Context, ticker string) *Result {
	r := &Result{Ticker: ticker}

	log.Printf("Step 1/3: Scraping headlines for %s...", ticker)
	records, err := p.scraper.Scan(ctx, ticker)
	if err != nil && p.feed != nil {
		log.Printf("Scrape failed (%v), falling back to feed", err)
		records, err = p.feed.Fetch(ticker)
	}
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Scrape", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Scrape",
		Summary: fmt.Sprintf("Found %d headlines", len(records)),
	})
	if len(records) == 0 {
		r.Steps = append(r.Steps, StepResult{Name: "Score", Summary: "Nothing to score"})
		r.Steps = append(r.Steps, StepResult{Name: "Store", Summary: "Nothing to store"})
		return r
	}

	log.Printf("Step 2/3: Scoring %d headlines...", len(records))
	batch, step := p.scoreRecords(ctx, records)
	r.Steps = append(r.Steps, step)

	log.Printf("Step 3/3: Storing headlines...")
	appendResult, err := p.db.AppendHeadlines(batch)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Store", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Store",
		Summary: fmt.Sprintf("Stored %d new headlines (%d duplicates skipped)", appendResult.Inserted, appendResult.Duplicates),
	})
	return r
}

// scoreRecords classifies the batch and attaches sentiment fields. When the
// scorer is unreachable the records are stored unscored; aggregation simply
// excludes them until a later scan scores the backlog.
func (p *Pipeline) scoreRecords(ctx context.Context, records []scrape.Record) ([]database.Headline, StepResult) {
	batch := make([]database.Headline, len(records))
	for i, rec := range records {
		link := rec.Link
		batch[i] = database.Headline{
			Ticker:   rec.Ticker,
			Date:     rec.Date,
			Time:     rec.Time,
			Headline: rec.Headline,
			Link:     &link,
		}
	}

	if p.scorer == nil || !p.scorer.IsConfigured() {
		return batch, StepResult{Name: "Score", Summary: "Scoring endpoint not configured, storing unscored"}
	}

	headlines := make([]string, len(records))
	for i, rec := range records {
		headlines[i] = rec.Headline
	}

	results, err := p.scorer.Score(ctx, headlines)
	if err != nil {
		log.Printf("Scoring failed: %v", err)
		return batch, StepResult{Name: "Score", Summary: fmt.Sprintf("Scoring failed (%v), storing unscored", err)}
	}

	for i, res := range results {
		label := res.Label
		confidence := res.Confidence
		signed := res.SignedScore()
		batch[i].Label = &label
		batch[i].Confidence = &confidence
		batch[i].SentimentScore = &signed
	}
	return batch, StepResult{Name: "Score", Summary: fmt.Sprintf("Scored %d headlines", len(results))}
}

// ScoreBacklog scores stored headlines that were persisted unscored.
func (p *Pipeline) ScoreBacklog(ctx context.Context, ticker string) (int, error) {
	if p.scorer == nil || !p.scorer.IsConfigured() {
		return 0, nil
	}

	stored, err := p.db.GetHeadlinesForTicker(ticker)
	if err != nil {
		return 0, err
	}

	var pending []database.Headline
	for _, h := range stored {
		if !h.Scored() {
			pending = append(pending, h)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	texts := make([]string, len(pending))
	for i, h := range pending {
		texts[i] = h.Headline
	}

	results, err := p.scorer.Score(ctx, texts)
	if err != nil {
		return 0, err
	}

	for i, res := range results {
		if err := p.db.UpdateHeadlineScore(pending[i].ID, res.Label, res.Confidence, res.SignedScore()); err != nil {
			return i, err
		}
	}
	return len(results), nil
}

// Analyze runs load -> aggregate -> prices -> backtest -> report for one ticker.
func (p *Pipeline) Analyze(ctx context.Context, ticker string) *Result {
	r := &Result{Ticker: ticker}

	if n, err := p.ScoreBacklog(ctx, ticker); err != nil {
		log.Printf("Scoring backlog failed: %v", err)
	} else if n > 0 {
		log.Printf("Scored %d backlogged headlines for %s", n, ticker)
	}

	stored, err := p.db.GetHeadlinesForTicker(ticker)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Load", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("Loaded %d stored headlines", len(stored)),
	})

	now := time.Now()
	daily := sentiment.Aggregate(stored, now)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Aggregate",
		Summary: fmt.Sprintf("%d days with scored sentiment", len(daily)),
	})
	if len(daily) == 0 {
		r.Steps = append(r.Steps, StepResult{Name: "Backtest", Summary: "No sentiment data, nothing to backtest"})
		return r
	}

	start, err := time.Parse("2006-01-02", daily[0].Date)
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Prices", Err: err})
		return r
	}
	bars, err := p.prices.GetDailyBars(ctx, ticker, start, now.AddDate(0, 0, 1))
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Prices", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Prices",
		Summary: fmt.Sprintf("Fetched %d daily bars", len(bars)),
	})

	opts := backtest.Options{
		BuyThreshold:   p.cfg.Backtest.BuyThreshold,
		SellThreshold:  p.cfg.Backtest.SellThreshold,
		InitialCapital: p.cfg.Backtest.InitialCapital,
	}
	rows := backtest.Run(daily, bars, opts)
	r.Rows = rows
	r.RunSummary = backtest.Summarize(rows, opts.InitialCapital)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Backtest",
		Summary: fmt.Sprintf("%d trading days, final equity %.2f", r.RunSummary.TradingDays, r.RunSummary.FinalEquity),
	})

	body := report.Build(ticker, rows, opts)
	if err := p.db.InsertReport(ticker, body, r.RunSummary.TradingDays, r.RunSummary.FinalEquity); err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Report", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Report",
		Summary: fmt.Sprintf("Report stored for %s", ticker),
	})

	return r
}
