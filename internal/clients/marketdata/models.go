package marketdata

import "time"

// DailyBar represents a single OHLCV data point with any dividend paid
// on that date
type DailyBar struct {
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Dividends float64   `json:"dividends"`
}

// Quote represents current quote information for a ticker
type Quote struct {
	Symbol      string   `json:"symbol"`
	Price       *float64 `json:"price,omitempty"`
	ForwardEPS  *float64 `json:"forward_eps,omitempty"`
	TrailingEPS *float64 `json:"trailing_eps,omitempty"`
	MarketCap   *int64   `json:"market_cap,omitempty"`
	LongName    *string  `json:"long_name,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
}

// YearlyFinancials contains one fiscal year of fundamentals for a ticker.
// Monetary figures are raw currency amounts as reported, EPS is per share.
type YearlyFinancials struct {
	Year          int      `json:"year"`
	Revenue       *float64 `json:"revenue,omitempty"`
	TotalExpenses *float64 `json:"total_expenses,omitempty"`
	GrossProfit   *float64 `json:"gross_profit,omitempty"`
	EBITDA        *float64 `json:"ebitda,omitempty"`
	FreeCashFlow  *float64 `json:"free_cash_flow,omitempty"`
	DividendsPaid *float64 `json:"dividends_paid,omitempty"`
	BasicEPS      *float64 `json:"basic_eps,omitempty"`
}
