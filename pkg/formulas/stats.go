package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization convention used throughout:
// daily statistics scale by 252 (volatility by sqrt(252)). Callers
// needing a different convention must rescale externally.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1 divisor)
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance (N-1 divisor)
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// SimpleReturns converts prices to simple percentage returns without the
// leading missing value: Returns[i] = (Price[i+1] - Price[i]) / Price[i].
// The result is one element shorter than the input. A zero price yields
// a zero return for the following period.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	return returns
}

// Dropna returns a copy of the series with NaN observations removed.
// The input is left untouched.
func Dropna(series []float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
