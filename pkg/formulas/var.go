package formulas

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// HistoricalVaR estimates Value at Risk from the empirical return
// distribution, with no distributional assumption.
//
// The estimate is the linear-interpolation percentile of the sample at
// rank (1 - confidenceLevel)*100, scaled by the invested amount:
//
//	VaR = investmentValue * |quantile(returns, 1 - confidenceLevel)|
//
// NaN observations are dropped before ranking. Fails with
// ErrInvalidArgument when confidenceLevel is outside (0, 1) or the
// invested amount is negative, and with ErrInsufficientData when no
// observations remain.
func HistoricalVaR(returns []float64, confidenceLevel, investmentValue float64) (float64, error) {
	if err := ValidateVaRArgs(confidenceLevel, investmentValue); err != nil {
		return 0, err
	}

	sample := Dropna(returns)
	if len(sample) == 0 {
		return 0, fmt.Errorf("historical VaR requires at least one return observation: %w", ErrInsufficientData)
	}
	sort.Float64s(sample)

	quantile := percentile(sample, (1-confidenceLevel)*100)
	return investmentValue * math.Abs(quantile), nil
}

// ParametricVaR estimates Value at Risk under a Gaussian assumption.
//
// The sample mean μ and sample standard deviation σ (N-1 divisor) are
// combined with the standard normal quantile z = Φ⁻¹(1 - confidenceLevel):
//
//	VaR = investmentValue * |μ + z·σ|
//
// NaN observations are dropped first. Fails with ErrInvalidArgument for
// a confidence level outside (0, 1) or a negative invested amount, and
// with ErrInsufficientData when fewer than two observations remain.
func ParametricVaR(returns []float64, confidenceLevel, investmentValue float64) (float64, error) {
	if err := ValidateVaRArgs(confidenceLevel, investmentValue); err != nil {
		return 0, err
	}

	sample := Dropna(returns)
	if len(sample) < 2 {
		return 0, fmt.Errorf("parametric VaR requires at least two return observations: %w", ErrInsufficientData)
	}

	mu := Mean(sample)
	sigma := StdDev(sample)

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - confidenceLevel)
	return investmentValue * math.Abs(mu+z*sigma), nil
}

// ValidateVaRArgs checks the shared VaR parameters without touching any
// return data, so callers can reject bad requests before fetching
func ValidateVaRArgs(confidenceLevel, investmentValue float64) error {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return fmt.Errorf("confidence level must be between 0 and 1, got %v: %w", confidenceLevel, ErrInvalidArgument)
	}
	if investmentValue < 0 {
		return fmt.Errorf("investment value must be non-negative, got %v: %w", investmentValue, ErrInvalidArgument)
	}
	return nil
}

// percentile computes the q-th percentile (0-100) of an ascending
// sorted, non-empty sample using linear interpolation between the
// closest ranks: rank = q/100 * (n-1), interpolated between the
// bracketing order statistics.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
