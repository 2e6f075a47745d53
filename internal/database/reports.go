package database

import "database/sql"

// InsertReport stores a backtest report for a ticker, replacing any prior one.
func (db *DB) InsertReport(ticker, bodyMarkdown string, tradingDays int, finalEquity float64) error {
	_, err := db.conn.Exec(
		`INSERT INTO reports (ticker, body_markdown, trading_days, final_equity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			body_markdown = excluded.body_markdown,
			trading_days = excluded.trading_days,
			final_equity = excluded.final_equity,
			generated_at = datetime('now')`,
		ticker, bodyMarkdown, tradingDays, finalEquity,
	)
	return err
}

// GetReport returns the stored report for a ticker, or nil if none exists.
func (db *DB) GetReport(ticker string) (*Report, error) {
	row := db.conn.QueryRow(
		`SELECT id, ticker, body_markdown, trading_days, final_equity, generated_at
		FROM reports WHERE ticker = ?`, ticker,
	)

	var r Report
	err := row.Scan(&r.ID, &r.Ticker, &r.BodyMarkdown, &r.TradingDays, &r.FinalEquity, &r.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetAllReports returns all stored reports, newest first.
func (db *DB) GetAllReports() ([]Report, error) {
	rows, err := db.conn.Query(
		`SELECT id, ticker, body_markdown, trading_days, final_equity, generated_at
		FROM reports ORDER BY generated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Ticker, &r.BodyMarkdown, &r.TradingDays, &r.FinalEquity, &r.GeneratedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
