package financials

import (
	"database/sql"
	"fmt"

	"github.com/aristath/riskboard/internal/database"
	"github.com/rs/zerolog"
)

const reportColumns = `ticker, year, revenue, total_expenses, gross_profit, ebitda, free_cash_flow, dividends_paid, basic_eps`

// Repository provides access to stored financial reports
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new financial report repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "financials_repository").Logger(),
	}
}

// ReplaceAll atomically replaces every stored report for a ticker
func (r *Repository) ReplaceAll(ticker string, reports []Report) error {
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM financial_reports WHERE ticker = ?", ticker)
		if err != nil {
			return fmt.Errorf("failed to delete reports: %w", err)
		}

		stmt, err := tx.Prepare(
			"INSERT INTO financial_reports (" + reportColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rep := range reports {
			_, err := stmt.Exec(
				ticker, rep.Year, rep.Revenue, rep.TotalExpenses, rep.GrossProfit,
				rep.EBITDA, rep.FreeCashFlow, rep.DividendsPaid, rep.BasicEPS,
			)
			if err != nil {
				return fmt.Errorf("failed to insert report for year %d: %w", rep.Year, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Debug().Str("ticker", ticker).Int("years", len(reports)).Msg("Replaced financial reports")
	return nil
}

// GetByTicker fetches all stored reports for a ticker, oldest year first
func (r *Repository) GetByTicker(ticker string) ([]Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM financial_reports
		WHERE ticker = ?
		ORDER BY year ASC
	`

	rows, err := r.db.Query(query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.Ticker, &rep.Year, &rep.Revenue, &rep.TotalExpenses, &rep.GrossProfit,
			&rep.EBITDA, &rep.FreeCashFlow, &rep.DividendsPaid, &rep.BasicEPS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

// EPSByYear returns the stored basic EPS keyed by fiscal year, skipping
// years with no figure
func (r *Repository) EPSByYear(ticker string) (map[int]float64, error) {
	rows, err := r.db.Query(
		"SELECT year, basic_eps FROM financial_reports WHERE ticker = ? AND basic_eps IS NOT NULL",
		ticker,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query EPS: %w", err)
	}
	defer rows.Close()

	eps := make(map[int]float64)
	for rows.Next() {
		var year int
		var value float64
		if err := rows.Scan(&year, &value); err != nil {
			return nil, fmt.Errorf("failed to scan EPS: %w", err)
		}
		eps[year] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating EPS: %w", err)
	}
	return eps, nil
}
