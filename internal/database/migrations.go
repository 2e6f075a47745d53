package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS headlines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    headline TEXT NOT NULL,
    link TEXT,
    label TEXT,
    confidence REAL,
    sentiment_score REAL,
    content TEXT,
    content_fetched INTEGER DEFAULT 0,
    collected_at TEXT DEFAULT (datetime('now')),
    UNIQUE(ticker, date, time, headline)
);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker TEXT UNIQUE NOT NULL,
    body_markdown TEXT NOT NULL,
    trading_days INTEGER DEFAULT 0,
    final_equity REAL DEFAULT 0,
    generated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_headlines_ticker ON headlines(ticker);
CREATE INDEX IF NOT EXISTS idx_headlines_ticker_date ON headlines(ticker, date);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
