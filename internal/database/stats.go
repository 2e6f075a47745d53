package database

import "time"

// GetToday returns today's date as YYYY-MM-DD.
func GetToday() string {
	return time.Now().Format("2006-01-02")
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM headlines", &s.TotalHeadlines},
		{"SELECT COUNT(*) FROM headlines WHERE sentiment_score IS NOT NULL", &s.ScoredHeadlines},
		{"SELECT COUNT(DISTINCT ticker) FROM headlines", &s.Tickers},
		{"SELECT COUNT(*) FROM reports", &s.Reports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}
