// Package financials stores yearly fundamentals and presents them as
// display-ready statements.
package financials

// Report is one stored fiscal year of fundamentals, raw currency amounts
// as reported
type Report struct {
	Ticker        string   `json:"ticker"`
	Year          int      `json:"year"`
	Revenue       *float64 `json:"revenue,omitempty"`
	TotalExpenses *float64 `json:"total_expenses,omitempty"`
	GrossProfit   *float64 `json:"gross_profit,omitempty"`
	EBITDA        *float64 `json:"ebitda,omitempty"`
	FreeCashFlow  *float64 `json:"free_cash_flow,omitempty"`
	DividendsPaid *float64 `json:"dividends_paid,omitempty"`
	BasicEPS      *float64 `json:"basic_eps,omitempty"`
}

// StatementRow is one fiscal year formatted for display: monetary figures
// in billions rounded to two decimals, EPS per share
type StatementRow struct {
	Year          int      `json:"year"`
	Revenue       *float64 `json:"revenue,omitempty"`
	TotalExpenses *float64 `json:"total_expenses,omitempty"`
	GrossProfit   *float64 `json:"gross_profit,omitempty"`
	EBITDA        *float64 `json:"ebitda,omitempty"`
	FreeCashFlow  *float64 `json:"free_cash_flow,omitempty"`
	DividendsPaid *float64 `json:"dividends_paid,omitempty"`
	BasicEPS      *float64 `json:"basic_eps,omitempty"`
}

// GrowthRow holds year-over-year growth percentages for one fiscal year
type GrowthRow struct {
	Year          int      `json:"year"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	EPSGrowth     *float64 `json:"eps_growth,omitempty"`
}
