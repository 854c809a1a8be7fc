package database

import "database/sql"

// Schema is the single source of truth for the application database.
// Every statement is idempotent so Migrate can run at every startup.
const Schema = `
CREATE TABLE IF NOT EXISTS daily_prices (
    ticker    TEXT NOT NULL,
    date      TEXT NOT NULL,
    open      REAL,
    high      REAL,
    low       REAL,
    close     REAL,
    volume    INTEGER,
    dividends REAL,
    ema50     REAL,
    ema200    REAL,
    yield     REAL,
    PRIMARY KEY (date, ticker)
);

CREATE INDEX IF NOT EXISTS idx_daily_prices_ticker ON daily_prices(ticker, date);

CREATE TABLE IF NOT EXISTS financial_reports (
    ticker         TEXT NOT NULL,
    year           INTEGER NOT NULL,
    revenue        REAL,
    total_expenses REAL,
    gross_profit   REAL,
    ebitda         REAL,
    free_cash_flow REAL,
    dividends_paid REAL,
    basic_eps      REAL,
    PRIMARY KEY (ticker, year)
);

CREATE TABLE IF NOT EXISTS assessments (
    id         TEXT PRIMARY KEY,
    score      INTEGER NOT NULL,
    band       TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS series_cache (
    cache_key  TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_series_cache_expires ON series_cache(expires_at);
`

// Migrate applies the database schema
func (db *DB) Migrate() error {
	return WithTransaction(db.conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(Schema)
		return err
	})
}
