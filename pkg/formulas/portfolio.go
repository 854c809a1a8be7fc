package formulas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PortfolioVaRResult bundles portfolio Value at Risk with the derived
// risk and performance statistics computed from the aggregated return
// series.
type PortfolioVaRResult struct {
	VaR                  float64 `json:"var"`
	DailyVolatility      float64 `json:"daily_volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	ExpectedReturn       float64 `json:"expected_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	SampleSize           int     `json:"sample_size"`
}

// PortfolioReturns combines per-asset return series into a single
// portfolio return series.
//
// Args:
//
//	assetReturns: One return series per asset, all the same length,
//	  aligned by time index
//	weights: Portfolio weights in the same asset order
//
// Returns:
//
//	The weighted sum of asset returns at each time step, computed as a
//	matrix-vector product. Rows containing any NaN across assets are
//	dropped before aggregation. Fails with ErrInvalidArgument when the
//	asset and weight counts differ or the series lengths are unequal.
func PortfolioReturns(assetReturns [][]float64, weights []float64) ([]float64, error) {
	if len(assetReturns) != len(weights) {
		return nil, fmt.Errorf("number of assets (%d) must match number of weights (%d): %w",
			len(assetReturns), len(weights), ErrInvalidArgument)
	}
	if len(assetReturns) == 0 {
		return nil, fmt.Errorf("at least one asset return series is required: %w", ErrInsufficientData)
	}

	n := len(assetReturns[0])
	for i, series := range assetReturns {
		if len(series) != n {
			return nil, fmt.Errorf("asset return series must all have the same length, asset %d has %d observations (expected %d): %w",
				i, len(series), n, ErrInvalidArgument)
		}
	}

	// Keep only rows where every asset has an observation.
	flat := make([]float64, 0, n*len(weights))
	kept := 0
	for i := 0; i < n; i++ {
		complete := true
		for _, series := range assetReturns {
			if math.IsNaN(series[i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for _, series := range assetReturns {
			flat = append(flat, series[i])
		}
		kept++
	}

	if kept == 0 {
		return []float64{}, nil
	}

	matrix := mat.NewDense(kept, len(weights), flat)
	w := mat.NewVecDense(len(weights), weights)

	var product mat.VecDense
	product.MulVec(matrix, w)

	portfolio := make([]float64, kept)
	for i := range portfolio {
		portfolio[i] = product.AtVec(i)
	}
	return portfolio, nil
}

// PortfolioVaR reduces per-asset return series to a portfolio return
// series, estimates Value at Risk on it with the requested method, and
// derives volatility and performance statistics.
//
// Args:
//
//	assetReturns: One return series per asset, aligned by time index
//	weights: Portfolio weights in the same asset order
//	confidenceLevel: VaR confidence level in (0, 1)
//	investmentValue: Invested monetary amount, must be non-negative
//	method: "historical" or "parametric"
//
// Returns:
//
//	VaR plus daily/annualized volatility, expected/annualized return
//	and Sharpe ratio. A zero-volatility portfolio fails with
//	ErrInsufficientData rather than producing an infinite Sharpe ratio.
func PortfolioVaR(assetReturns [][]float64, weights []float64, confidenceLevel, investmentValue float64, method string) (*PortfolioVaRResult, error) {
	if err := ValidateVaRMethod(method); err != nil {
		return nil, err
	}
	if err := ValidateVaRArgs(confidenceLevel, investmentValue); err != nil {
		return nil, err
	}

	portfolio, err := PortfolioReturns(assetReturns, weights)
	if err != nil {
		return nil, err
	}
	if len(portfolio) < 2 {
		return nil, fmt.Errorf("portfolio statistics require at least two aggregated return observations: %w", ErrInsufficientData)
	}

	var varValue float64
	if method == MethodHistorical {
		varValue, err = HistoricalVaR(portfolio, confidenceLevel, investmentValue)
	} else {
		varValue, err = ParametricVaR(portfolio, confidenceLevel, investmentValue)
	}
	if err != nil {
		return nil, err
	}

	mean := Mean(portfolio)
	std := StdDev(portfolio)
	if std == 0 {
		return nil, fmt.Errorf("sharpe ratio is undefined for a zero-volatility return series: %w", ErrInsufficientData)
	}

	return &PortfolioVaRResult{
		VaR:                  varValue,
		DailyVolatility:      std,
		AnnualizedVolatility: std * math.Sqrt(TradingDaysPerYear),
		ExpectedReturn:       mean,
		AnnualizedReturn:     mean * TradingDaysPerYear,
		SharpeRatio:          mean / std * math.Sqrt(TradingDaysPerYear),
		SampleSize:           len(portfolio),
	}, nil
}

// ValidateVaRMethod checks that method names a supported VaR estimator
func ValidateVaRMethod(method string) error {
	if method != MethodHistorical && method != MethodParametric {
		return fmt.Errorf("method must be either 'historical' or 'parametric', got %q: %w", method, ErrInvalidArgument)
	}
	return nil
}
