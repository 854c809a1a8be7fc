package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// fmpIncomeStatement mirrors one annual row of the income statement API
type fmpIncomeStatement struct {
	CalendarYear      string  `json:"calendarYear"`
	Revenue           float64 `json:"revenue"`
	CostOfRevenue     float64 `json:"costOfRevenue"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	EBITDA            float64 `json:"ebitda"`
	EPS               float64 `json:"eps"`
}

// fmpCashFlowStatement mirrors one annual row of the cash flow statement API
type fmpCashFlowStatement struct {
	CalendarYear  string  `json:"calendarYear"`
	FreeCashFlow  float64 `json:"freeCashFlow"`
	DividendsPaid float64 `json:"dividendsPaid"`
}

// GetYearlyFinancials fetches annual fundamentals for a ticker, oldest year
// first. Requires an FMP API key; without one the method reports ErrNoData
// so callers fall back to whatever is already stored.
func (c *Client) GetYearlyFinancials(ctx context.Context, ticker string) ([]YearlyFinancials, error) {
	if c.fmpAPIKey == "" {
		return nil, fmt.Errorf("%w: fundamentals provider not configured", ErrNoData)
	}

	params := url.Values{}
	params.Add("period", "annual")
	params.Add("apikey", c.fmpAPIKey)
	query := "?" + params.Encode()

	incomeBody, err := c.getWithRetry(ctx, fmpBaseURL+"/income-statement/"+url.PathEscape(ticker)+query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income statements: %w", err)
	}

	var income []fmpIncomeStatement
	if err := json.Unmarshal(incomeBody, &income); err != nil {
		return nil, fmt.Errorf("failed to parse income statements: %w", err)
	}
	if len(income) == 0 {
		return nil, fmt.Errorf("%w: no income statements for %s", ErrNoData, ticker)
	}

	// The cash flow statement is a separate endpoint; its absence only
	// costs the FCF and dividend columns.
	cashByYear := map[int]fmpCashFlowStatement{}
	cashBody, err := c.getWithRetry(ctx, fmpBaseURL+"/cash-flow-statement/"+url.PathEscape(ticker)+query)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Cash flow statements unavailable")
	} else {
		var cash []fmpCashFlowStatement
		if err := json.Unmarshal(cashBody, &cash); err == nil {
			for _, row := range cash {
				if year, err := strconv.Atoi(row.CalendarYear); err == nil {
					cashByYear[year] = row
				}
			}
		}
	}

	results := make([]YearlyFinancials, 0, len(income))
	for _, row := range income {
		year, err := strconv.Atoi(row.CalendarYear)
		if err != nil {
			continue
		}

		fin := YearlyFinancials{
			Year:          year,
			Revenue:       ptrFloat(row.Revenue),
			TotalExpenses: ptrFloat(row.CostOfRevenue + row.OperatingExpenses),
			GrossProfit:   ptrFloat(row.GrossProfit),
			EBITDA:        ptrFloat(row.EBITDA),
			BasicEPS:      ptrFloat(row.EPS),
		}
		if cash, ok := cashByYear[year]; ok {
			fin.FreeCashFlow = ptrFloat(cash.FreeCashFlow)
			fin.DividendsPaid = ptrFloat(cash.DividendsPaid)
		}
		results = append(results, fin)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Year < results[j].Year })

	c.log.Debug().
		Str("ticker", ticker).
		Int("years", len(results)).
		Msg("Fetched yearly financials")

	return results, nil
}

func ptrFloat(v float64) *float64 {
	return &v
}
