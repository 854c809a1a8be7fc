package prices

import (
	"database/sql"
	"fmt"

	"github.com/aristath/riskboard/internal/database"
	"github.com/rs/zerolog"
)

const dailyPricesColumns = `ticker, date, open, high, low, close, volume, dividends, ema50, ema200, yield`

// Repository provides access to stored daily price data
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new price repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "prices_repository").Logger(),
	}
}

// ReplaceRange atomically replaces all rows for a ticker between start and
// end (inclusive, YYYY-MM-DD) with the given prices. Rows outside the range
// are left alone, so incremental syncs never destroy older history.
func (r *Repository) ReplaceRange(ticker, start, end string, rows []DailyPrice) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"DELETE FROM daily_prices WHERE ticker = ? AND date >= ? AND date <= ?",
			ticker, start, end,
		)
		if err != nil {
			return fmt.Errorf("failed to delete price range: %w", err)
		}

		stmt, err := tx.Prepare(
			"INSERT INTO daily_prices (" + dailyPricesColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range rows {
			_, err := stmt.Exec(
				ticker, p.Date, p.Open, p.High, p.Low, p.Close,
				p.Volume, p.Dividends, p.EMA50, p.EMA200, p.Yield,
			)
			if err != nil {
				return fmt.Errorf("failed to insert price for %s: %w", p.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Debug().
		Str("ticker", ticker).
		Str("start", start).
		Str("end", end).
		Int("rows", len(rows)).
		Msg("Replaced price range")
	return nil
}

// GetRange fetches stored prices for a ticker between start and end
// (inclusive, YYYY-MM-DD), oldest first
func (r *Repository) GetRange(ticker, start, end string) ([]DailyPrice, error) {
	query := `
		SELECT ` + dailyPricesColumns + `
		FROM daily_prices
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query price range: %w", err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

// GetRecent fetches the most recent n stored prices for a ticker, oldest
// first
func (r *Repository) GetRecent(ticker string, n int) ([]DailyPrice, error) {
	if n <= 0 {
		return []DailyPrice{}, nil
	}

	query := `
		SELECT ` + dailyPricesColumns + `
		FROM daily_prices
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, ticker, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent prices: %w", err)
	}
	defer rows.Close()

	prices, err := scanPrices(rows)
	if err != nil {
		return nil, err
	}

	// The LIMIT query walks backwards; flip to chronological order.
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	return prices, nil
}

// DistinctTickers returns all tickers with stored history, sorted
func (r *Repository) DistinctTickers() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT ticker FROM daily_prices ORDER BY ticker ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}
	return tickers, nil
}

// LastDate returns the most recent stored date for a ticker, or an empty
// string when no rows exist
func (r *Repository) LastDate(ticker string) (string, error) {
	var date sql.NullString
	err := r.db.QueryRow(
		"SELECT MAX(date) FROM daily_prices WHERE ticker = ?", ticker,
	).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("failed to query last date: %w", err)
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

// FirstClose returns the earliest stored close for a ticker, or nil when no
// rows exist. Used as the baseline for the cumulative yield column.
func (r *Repository) FirstClose(ticker string) (*float64, error) {
	var closePrice sql.NullFloat64
	err := r.db.QueryRow(
		"SELECT close FROM daily_prices WHERE ticker = ? ORDER BY date ASC LIMIT 1", ticker,
	).Scan(&closePrice)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query first close: %w", err)
	}
	if !closePrice.Valid {
		return nil, nil
	}
	return &closePrice.Float64, nil
}

// LastRow returns the most recent stored row for a ticker, or nil when no
// rows exist
func (r *Repository) LastRow(ticker string) (*DailyPrice, error) {
	query := `
		SELECT ` + dailyPricesColumns + `
		FROM daily_prices
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT 1
	`

	rows, err := r.db.Query(query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query last row: %w", err)
	}
	defer rows.Close()

	prices, err := scanPrices(rows)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return &prices[0], nil
}

func scanPrices(rows *sql.Rows) ([]DailyPrice, error) {
	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		var volume sql.NullInt64
		var dividends sql.NullFloat64
		var ema50, ema200, yield sql.NullFloat64

		err := rows.Scan(
			&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close,
			&volume, &dividends, &ema50, &ema200, &yield,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		if volume.Valid {
			p.Volume = &volume.Int64
		}
		if dividends.Valid {
			p.Dividends = dividends.Float64
		}
		if ema50.Valid {
			p.EMA50 = &ema50.Float64
		}
		if ema200.Valid {
			p.EMA200 = &ema200.Float64
		}
		if yield.Valid {
			p.Yield = &yield.Float64
		}

		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}
	return prices, nil
}
