// Package risk computes Value at Risk estimates over fetched price
// history.
package risk

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	// Defaults applied when a request omits the field.
	DefaultConfidenceLevel = 0.95
	DefaultInvestment      = 1.0
	DefaultPortfolioValue  = 100000.0
	DefaultLookbackDays    = 252

	// Portfolio weights must sum to 1 within this tolerance.
	weightSumTolerance = 0.01
)

// PriceHistory serves daily price windows
type PriceHistory interface {
	History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error)
}

// Service computes VaR estimates
type Service struct {
	prices PriceHistory
	log    zerolog.Logger
}

// NewService creates a new risk service
func NewService(prices PriceHistory, log zerolog.Logger) *Service {
	return &Service{
		prices: prices,
		log:    log.With().Str("service", "risk").Logger(),
	}
}

// VaRResult carries both VaR estimates for one return series
type VaRResult struct {
	HistoricalVaR   float64 `json:"historical_var"`
	ParametricVaR   float64 `json:"parametric_var"`
	ConfidenceLevel float64 `json:"confidence_level"`
	InvestmentValue float64 `json:"investment_value"`
	SampleSize      int     `json:"sample_size"`
}

// VaR computes the historical and parametric estimates for a supplied
// return series
func (s *Service) VaR(returns []float64, confidenceLevel, investmentValue float64) (*VaRResult, error) {
	historical, err := formulas.HistoricalVaR(returns, confidenceLevel, investmentValue)
	if err != nil {
		return nil, err
	}
	parametric, err := formulas.ParametricVaR(returns, confidenceLevel, investmentValue)
	if err != nil {
		return nil, err
	}

	return &VaRResult{
		HistoricalVaR:   historical,
		ParametricVaR:   parametric,
		ConfidenceLevel: confidenceLevel,
		InvestmentValue: investmentValue,
		SampleSize:      len(formulas.Dropna(returns)),
	}, nil
}

// AssetWeight names one portfolio constituent and its weight
type AssetWeight struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

// PortfolioVaRParams are the resolved inputs of a portfolio VaR run
type PortfolioVaRParams struct {
	Tickers         []string
	Weights         []float64
	Days            int
	ConfidenceLevel float64
	InvestmentValue float64
	Method          string
}

// PortfolioVaRResult carries the VaR estimate and portfolio statistics
type PortfolioVaRResult struct {
	VaR                  float64       `json:"var"`
	DailyVolatility      float64       `json:"daily_volatility"`
	AnnualizedVolatility float64       `json:"annualized_volatility"`
	ExpectedReturn       float64       `json:"expected_return"`
	AnnualizedReturn     float64       `json:"annualized_return"`
	SharpeRatio          float64       `json:"sharpe_ratio"`
	Method               string        `json:"method"`
	ConfidenceLevel      float64       `json:"confidence_level"`
	InvestmentValue      float64       `json:"investment_value"`
	Days                 int           `json:"days"`
	SampleSize           int           `json:"sample_size"`
	Composition          []AssetWeight `json:"portfolio_composition"`
}

// PortfolioVaR fetches history for each constituent, aligns the series by
// date, aggregates log returns with the given weights and estimates VaR.
// All argument validation happens before any data is fetched.
func (s *Service) PortfolioVaR(ctx context.Context, params PortfolioVaRParams) (*PortfolioVaRResult, error) {
	if err := validatePortfolioParams(params); err != nil {
		return nil, err
	}

	aligned, err := s.alignedCloses(ctx, params.Tickers, params.Days)
	if err != nil {
		return nil, err
	}

	assetReturns := make([][]float64, len(aligned))
	for i, closes := range aligned {
		returns, err := formulas.CalculateReturns(closes, formulas.MethodLog)
		if err != nil {
			return nil, err
		}
		assetReturns[i] = returns
	}

	result, err := formulas.PortfolioVaR(assetReturns, params.Weights,
		params.ConfidenceLevel, params.InvestmentValue, params.Method)
	if err != nil {
		return nil, err
	}

	composition := make([]AssetWeight, len(params.Tickers))
	for i, ticker := range params.Tickers {
		composition[i] = AssetWeight{Ticker: ticker, Weight: params.Weights[i]}
	}

	return &PortfolioVaRResult{
		VaR:                  result.VaR,
		DailyVolatility:      result.DailyVolatility,
		AnnualizedVolatility: result.AnnualizedVolatility,
		ExpectedReturn:       result.ExpectedReturn,
		AnnualizedReturn:     result.AnnualizedReturn,
		SharpeRatio:          result.SharpeRatio,
		Method:               params.Method,
		ConfidenceLevel:      params.ConfidenceLevel,
		InvestmentValue:      params.InvestmentValue,
		Days:                 params.Days,
		SampleSize:           result.SampleSize,
		Composition:          composition,
	}, nil
}

func validatePortfolioParams(params PortfolioVaRParams) error {
	if len(params.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required: %w", formulas.ErrInvalidArgument)
	}
	if len(params.Tickers) != len(params.Weights) {
		return fmt.Errorf("number of assets (%d) must match number of weights (%d): %w",
			len(params.Tickers), len(params.Weights), formulas.ErrInvalidArgument)
	}

	sum := 0.0
	for _, w := range params.Weights {
		if w < 0 {
			return fmt.Errorf("weights must be non-negative, got %v: %w", w, formulas.ErrInvalidArgument)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %.4f: %w", sum, formulas.ErrInvalidArgument)
	}

	if params.Days < 2 {
		return fmt.Errorf("days must be at least 2, got %d: %w", params.Days, formulas.ErrInvalidArgument)
	}
	if err := formulas.ValidateVaRMethod(params.Method); err != nil {
		return err
	}
	return formulas.ValidateVaRArgs(params.ConfidenceLevel, params.InvestmentValue)
}

// alignedCloses fetches each ticker's window and intersects the series by
// date, since constituents can have different trading calendars or listing
// dates. Returns one close series per ticker in input order.
func (s *Service) alignedCloses(ctx context.Context, tickers []string, days int) ([][]float64, error) {
	closesByDate := make([]map[string]float64, len(tickers))

	for i, ticker := range tickers {
		rows, err := s.prices.History(ctx, ticker, days, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to load history for %s: %w", ticker, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("no price history for %s: %w", ticker, formulas.ErrInsufficientData)
		}

		byDate := make(map[string]float64, len(rows))
		for _, row := range rows {
			byDate[row.Date] = row.Close
		}
		closesByDate[i] = byDate
	}

	// Dates present for every constituent, in chronological order.
	var shared []string
	for date := range closesByDate[0] {
		common := true
		for _, byDate := range closesByDate[1:] {
			if _, ok := byDate[date]; !ok {
				common = false
				break
			}
		}
		if common {
			shared = append(shared, date)
		}
	}
	sort.Strings(shared)

	if len(shared) < 2 {
		return nil, fmt.Errorf("constituents share only %d trading days: %w", len(shared), formulas.ErrInsufficientData)
	}

	aligned := make([][]float64, len(tickers))
	for i := range tickers {
		series := make([]float64, len(shared))
		for j, date := range shared {
			series[j] = closesByDate[i][date]
		}
		aligned[i] = series
	}
	return aligned, nil
}
