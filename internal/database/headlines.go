package database

import (
	"database/sql"
	"fmt"
)

// AppendResult summarizes one append of scraped headlines.
type AppendResult struct {
	Inserted   int
	Duplicates int
}

// InsertHeadline inserts a single headline. Returns the ID on success, 0 if a
// row with the same (ticker, date, time, headline) already exists. The first
// occurrence wins; later duplicates never overwrite stored sentiment.
func (db *DB) InsertHeadline(h Headline) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO headlines
		(ticker, date, time, headline, link, label, confidence, sentiment_score, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Ticker, h.Date, h.Time, h.Headline, h.Link, h.Label, h.Confidence, h.SentimentScore, h.Content,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting headline: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, nil
	}
	return result.LastInsertId()
}

// AppendHeadlines merges a batch into the store, deduplicating on the identity
// key. Re-appending the same batch is a no-op, so overlapping scrapes and
// replays are safe.
func (db *DB) AppendHeadlines(batch []Headline) (*AppendResult, error) {
	r := &AppendResult{}
	for _, h := range batch {
		id, err := db.InsertHeadline(h)
		if err != nil {
			return r, err
		}
		if id > 0 {
			r.Inserted++
		} else {
			r.Duplicates++
		}
	}
	return r, nil
}

// GetHeadlinesForTicker returns all stored headlines for a ticker. A ticker
// with no headlines yields an empty slice, not an error.
func (db *DB) GetHeadlinesForTicker(ticker string) ([]Headline, error) {
	rows, err := db.conn.Query(
		`SELECT id, ticker, date, time, headline, link, label, confidence, sentiment_score,
		content, content_fetched, collected_at
		FROM headlines WHERE ticker = ? ORDER BY collected_at DESC, id DESC`, ticker,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHeadlines(rows)
}

// GetTickers returns the distinct tickers present in the store.
func (db *DB) GetTickers() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT ticker FROM headlines ORDER BY ticker")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// UpdateHeadlineScore attaches sentiment fields to a stored headline.
func (db *DB) UpdateHeadlineScore(headlineID int64, label string, confidence, score float64) error {
	_, err := db.conn.Exec(
		"UPDATE headlines SET label = ?, confidence = ?, sentiment_score = ? WHERE id = ?",
		label, confidence, score, headlineID,
	)
	return err
}

// GetHeadlinesNeedingContent returns headlines with a link but no fetched article body.
func (db *DB) GetHeadlinesNeedingContent(ticker *string) ([]Headline, error) {
	query := `SELECT id, ticker, date, time, headline, link, label, confidence, sentiment_score,
		content, content_fetched, collected_at
		FROM headlines
		WHERE link IS NOT NULL AND (content IS NULL OR content = '') AND content_fetched = 0`
	var args []any
	if ticker != nil {
		query += " AND ticker = ?"
		args = append(args, *ticker)
	}
	query += " ORDER BY collected_at DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHeadlines(rows)
}

// UpdateHeadlineContent stores fetched article body text.
func (db *DB) UpdateHeadlineContent(headlineID int64, content *string) error {
	_, err := db.conn.Exec(
		"UPDATE headlines SET content = ?, content_fetched = 1 WHERE id = ?",
		content, headlineID,
	)
	return err
}

// MarkContentFetchAttempted marks that we tried to fetch the article body.
func (db *DB) MarkContentFetchAttempted(headlineID int64) error {
	_, err := db.conn.Exec(
		"UPDATE headlines SET content_fetched = 1 WHERE id = ?", headlineID,
	)
	return err
}

func scanHeadlines(rows *sql.Rows) ([]Headline, error) {
	var headlines []Headline
	for rows.Next() {
		var h Headline
		var fetched int
		if err := rows.Scan(&h.ID, &h.Ticker, &h.Date, &h.Time, &h.Headline, &h.Link,
			&h.Label, &h.Confidence, &h.SentimentScore, &h.Content, &fetched, &h.CollectedAt); err != nil {
			return nil, err
		}
		h.ContentFetched = fetched != 0
		headlines = append(headlines, h)
	}
	return headlines, rows.Err()
}
