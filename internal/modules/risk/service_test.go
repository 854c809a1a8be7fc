package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/riskboard/internal/modules/prices"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHistory serves canned price windows per ticker
type stubHistory struct {
	rows  map[string][]prices.DailyPrice
	err   error
	calls int
}

func (s *stubHistory) History(ctx context.Context, ticker string, days int, end time.Time) ([]prices.DailyPrice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[ticker], nil
}

func priceRows(ticker string, dates []string, closes []float64) []prices.DailyPrice {
	rows := make([]prices.DailyPrice, len(dates))
	for i := range dates {
		rows[i] = prices.DailyPrice{Ticker: ticker, Date: dates[i], Close: closes[i]}
	}
	return rows
}

func sampleReturns() []float64 {
	return []float64{0.01, -0.02, 0.015, -0.01, 0.02, 0.0, -0.015, 0.01, 0.005, -0.01}
}

func newTestService(source *stubHistory) *Service {
	return NewService(source, zerolog.Nop())
}

func TestVaRComputesBothEstimates(t *testing.T) {
	svc := newTestService(&stubHistory{})

	result, err := svc.VaR(sampleReturns(), 0.95, 10000)
	require.NoError(t, err)

	assert.InDelta(t, 177.5, result.HistoricalVaR, 0.01)
	assert.InDelta(t, 219.23, result.ParametricVaR, 0.05)
	assert.Equal(t, 0.95, result.ConfidenceLevel)
	assert.Equal(t, 10000.0, result.InvestmentValue)
	assert.Equal(t, 10, result.SampleSize)
}

func TestVaRRejectsBadConfidence(t *testing.T) {
	svc := newTestService(&stubHistory{})

	_, err := svc.VaR(sampleReturns(), 1.5, 10000)
	assert.ErrorIs(t, err, formulas.ErrInvalidArgument)
}

func TestPortfolioVaRValidatesBeforeFetching(t *testing.T) {
	tests := []struct {
		name   string
		params PortfolioVaRParams
	}{
		{
			name: "no tickers",
			params: PortfolioVaRParams{
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "ticker weight count mismatch",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{1.0},
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "weights do not sum to one",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{0.5, 0.3},
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "negative weight",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL", "MSFT"}, Weights: []float64{1.5, -0.5},
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "days too small",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL"}, Weights: []float64{1.0},
				Days: 1, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "unknown method",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL"}, Weights: []float64{1.0},
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: 100000, Method: "montecarlo",
			},
		},
		{
			name: "confidence out of range",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL"}, Weights: []float64{1.0},
				Days: 252, ConfidenceLevel: 1.0, InvestmentValue: 100000, Method: "historical",
			},
		},
		{
			name: "negative investment",
			params: PortfolioVaRParams{
				Tickers: []string{"AAPL"}, Weights: []float64{1.0},
				Days: 252, ConfidenceLevel: 0.95, InvestmentValue: -1, Method: "historical",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubHistory{}
			svc := newTestService(source)

			_, err := svc.PortfolioVaR(context.Background(), tt.params)

			assert.ErrorIs(t, err, formulas.ErrInvalidArgument)
			assert.Zero(t, source.calls, "validation failures must not trigger fetches")
		})
	}
}

func TestPortfolioVaRSingleAsset(t *testing.T) {
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08",
		"2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12", "2024-01-15"}
	closes := []float64{100, 101, 99.5, 100.5, 102, 101.5, 103, 102.5, 104, 103}

	source := &stubHistory{rows: map[string][]prices.DailyPrice{
		"AAPL": priceRows("AAPL", dates, closes),
	}}
	svc := newTestService(source)

	result, err := svc.PortfolioVaR(context.Background(), PortfolioVaRParams{
		Tickers:         []string{"AAPL"},
		Weights:         []float64{1.0},
		Days:            252,
		ConfidenceLevel: 0.95,
		InvestmentValue: 100000,
		Method:          "historical",
	})
	require.NoError(t, err)

	assert.Greater(t, result.VaR, 0.0)
	assert.Greater(t, result.DailyVolatility, 0.0)
	assert.Equal(t, "historical", result.Method)
	assert.Equal(t, 0.95, result.ConfidenceLevel)
	assert.Equal(t, 100000.0, result.InvestmentValue)
	assert.Equal(t, 252, result.Days)
	// First log return is undefined, so 10 closes yield 9 observations.
	assert.Equal(t, 9, result.SampleSize)
	require.Len(t, result.Composition, 1)
	assert.Equal(t, AssetWeight{Ticker: "AAPL", Weight: 1.0}, result.Composition[0])
	assert.Equal(t, 1, source.calls)
}

func TestPortfolioVaRAlignsByDateIntersection(t *testing.T) {
	// AAPL trades one extra day at the start, MSFT one extra at the end.
	// Only the five shared dates should enter the returns matrix.
	source := &stubHistory{rows: map[string][]prices.DailyPrice{
		"AAPL": priceRows("AAPL",
			[]string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08"},
			[]float64{99, 100, 101, 102, 101, 103}),
		"MSFT": priceRows("MSFT",
			[]string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08", "2024-01-09"},
			[]float64{200, 202, 201, 205, 204, 206}),
	}}
	svc := newTestService(source)

	result, err := svc.PortfolioVaR(context.Background(), PortfolioVaRParams{
		Tickers:         []string{"AAPL", "MSFT"},
		Weights:         []float64{0.6, 0.4},
		Days:            252,
		ConfidenceLevel: 0.95,
		InvestmentValue: 100000,
		Method:          "parametric",
	})
	require.NoError(t, err)

	// Five shared dates produce four return observations.
	assert.Equal(t, 4, result.SampleSize)
	assert.Equal(t, "parametric", result.Method)
	assert.Equal(t, 2, source.calls)
}

func TestPortfolioVaRInsufficientOverlap(t *testing.T) {
	source := &stubHistory{rows: map[string][]prices.DailyPrice{
		"AAPL": priceRows("AAPL", []string{"2024-01-02", "2024-01-03"}, []float64{100, 101}),
		"MSFT": priceRows("MSFT", []string{"2024-02-02", "2024-02-03"}, []float64{200, 202}),
	}}
	svc := newTestService(source)

	_, err := svc.PortfolioVaR(context.Background(), PortfolioVaRParams{
		Tickers:         []string{"AAPL", "MSFT"},
		Weights:         []float64{0.5, 0.5},
		Days:            252,
		ConfidenceLevel: 0.95,
		InvestmentValue: 100000,
		Method:          "historical",
	})
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)
}

func TestPortfolioVaRPropagatesFetchErrors(t *testing.T) {
	upstream := errors.New("provider down")
	source := &stubHistory{err: upstream}
	svc := newTestService(source)

	_, err := svc.PortfolioVaR(context.Background(), PortfolioVaRParams{
		Tickers:         []string{"AAPL"},
		Weights:         []float64{1.0},
		Days:            252,
		ConfidenceLevel: 0.95,
		InvestmentValue: 100000,
		Method:          "historical",
	})
	assert.ErrorIs(t, err, upstream)
}

func TestPortfolioVaRNoHistory(t *testing.T) {
	source := &stubHistory{rows: map[string][]prices.DailyPrice{}}
	svc := newTestService(source)

	_, err := svc.PortfolioVaR(context.Background(), PortfolioVaRParams{
		Tickers:         []string{"GHOST"},
		Weights:         []float64{1.0},
		Days:            252,
		ConfidenceLevel: 0.95,
		InvestmentValue: 100000,
		Method:          "historical",
	})
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)
}
