package financials

import (
	"context"
	"math"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/rs/zerolog"
)

const billion = 1e9

// FundamentalsSource fetches yearly fundamentals from an upstream provider
type FundamentalsSource interface {
	GetYearlyFinancials(ctx context.Context, ticker string) ([]marketdata.YearlyFinancials, error)
}

// Service serves financial statements, filling the local database from the
// upstream provider on first request
type Service struct {
	repo   *Repository
	source FundamentalsSource
	log    zerolog.Logger
}

// NewService creates a new financials service
func NewService(repo *Repository, source FundamentalsSource, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		source: source,
		log:    log.With().Str("service", "financials").Logger(),
	}
}

// Statement returns the yearly statement for a ticker, oldest year first.
// Monetary figures are converted to billions and rounded to two decimals;
// EPS stays per share.
func (s *Service) Statement(ctx context.Context, ticker string) ([]StatementRow, error) {
	reports, err := s.reportsFor(ctx, ticker)
	if err != nil {
		return nil, err
	}

	statement := make([]StatementRow, len(reports))
	for i, rep := range reports {
		statement[i] = StatementRow{
			Year:          rep.Year,
			Revenue:       inBillions(rep.Revenue),
			TotalExpenses: inBillions(rep.TotalExpenses),
			GrossProfit:   inBillions(rep.GrossProfit),
			EBITDA:        inBillions(rep.EBITDA),
			FreeCashFlow:  inBillions(rep.FreeCashFlow),
			DividendsPaid: inBillions(rep.DividendsPaid),
			BasicEPS:      round2Ptr(rep.BasicEPS),
		}
	}
	return statement, nil
}

// Growth returns year-over-year revenue and EPS growth percentages,
// starting with the second stored year
func (s *Service) Growth(ctx context.Context, ticker string) ([]GrowthRow, error) {
	reports, err := s.reportsFor(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var growth []GrowthRow
	for i := 1; i < len(reports); i++ {
		growth = append(growth, GrowthRow{
			Year:          reports[i].Year,
			RevenueGrowth: yoy(reports[i-1].Revenue, reports[i].Revenue),
			EPSGrowth:     yoy(reports[i-1].BasicEPS, reports[i].BasicEPS),
		})
	}
	return growth, nil
}

// EPSByYear returns stored basic EPS keyed by fiscal year, fetching
// upstream first if nothing is stored yet
func (s *Service) EPSByYear(ctx context.Context, ticker string) (map[int]float64, error) {
	if _, err := s.reportsFor(ctx, ticker); err != nil {
		return nil, err
	}
	return s.repo.EPSByYear(ticker)
}

// reportsFor serves stored reports, falling back to an upstream fetch and
// store when the ticker has none yet
func (s *Service) reportsFor(ctx context.Context, ticker string) ([]Report, error) {
	reports, err := s.repo.GetByTicker(ticker)
	if err != nil {
		return nil, err
	}
	if len(reports) > 0 {
		return reports, nil
	}

	fetched, err := s.source.GetYearlyFinancials(ctx, ticker)
	if err != nil {
		return nil, err
	}

	reports = make([]Report, len(fetched))
	for i, f := range fetched {
		reports[i] = Report{
			Ticker:        ticker,
			Year:          f.Year,
			Revenue:       f.Revenue,
			TotalExpenses: f.TotalExpenses,
			GrossProfit:   f.GrossProfit,
			EBITDA:        f.EBITDA,
			FreeCashFlow:  f.FreeCashFlow,
			DividendsPaid: f.DividendsPaid,
			BasicEPS:      f.BasicEPS,
		}
	}

	if err := s.repo.ReplaceAll(ticker, reports); err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to store fetched reports")
	}
	return reports, nil
}

// yoy computes a year-over-year growth percentage, nil when either side is
// missing or the base is zero
func yoy(prev, cur *float64) *float64 {
	if prev == nil || cur == nil || *prev == 0 {
		return nil
	}
	pct := (*cur - *prev) / math.Abs(*prev) * 100
	return &pct
}

func inBillions(v *float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := round2(*v / billion)
	return &scaled
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := round2(*v)
	return &rounded
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
